package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & fixtures shared by all package tests.
var (
	TestManagementUser m.User
	TestIesUser        m.User
	TestStudentUser1   m.User
	TestStudentUser2   m.User
	TestCompanyUser1   m.User
	TestCompanyUser2   m.User

	TestStudent1 m.Student
	TestStudent2 m.Student

	// TestCompany1 is approved, TestCompany2 stays pending.
	TestCompany1 m.Company
	TestCompany2 m.Company

	TestIes1 m.Institution

	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job

	// TestApplication1 is student1 applying to job2.
	TestApplication1 m.JobApplication

	TestPeriod1 m.ResidencyPeriod

	TestCard1 m.IesCard
	TestCard2 m.IesCard

	TestLanding1 m.LandingImage
	TestLanding2 m.LandingImage

	// Plain password shared by every seeded account.
	TestSeedPassword = "SeedPass123!"
)

// GetTestDB starts a PostgreSQL test container and returns a teardown
// function, the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

func ptr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// seedTestData inserts sample accounts, companies, an institution, jobs and
// content rows when the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	// Institution first so IES user and students can link to it.
	TestIes1 = m.Institution{
		Name:        "UNICAP",
		StartPeriod: "2023.1",
		EditableIesInfo: m.EditableIesInfo{
			Description: "Parceiro da Residência Tecnológica",
		},
	}
	if err := db.Create(&TestIes1).Error; err != nil {
		return err
	}

	// Companies: one approved, one pending.
	TestCompany1 = m.Company{
		Name:   "Moura",
		Status: m.StatusApproved,
		EditableCompanyInfo: m.EditableCompanyInfo{
			Description: "Energia e acumuladores",
			Website:     "https://moura.example.com",
		},
	}
	TestCompany2 = m.Company{
		Name:   "Startup Nordeste",
		Status: m.StatusPending,
	}
	if err := db.Create(&TestCompany1).Error; err != nil {
		return err
	}
	if err := db.Create(&TestCompany2).Error; err != nil {
		return err
	}

	// Accounts.
	userSpecs := []struct {
		username string
		role     string
		dst      *m.User
		company  *uuid.UUID
		ies      *uuid.UUID
	}{
		{"management_user", m.RoleManagement, &TestManagementUser, nil, nil},
		{"ies_user", m.RoleIes, &TestIesUser, nil, &TestIes1.ID},
		{"student_1", m.RoleStudent, &TestStudentUser1, nil, &TestIes1.ID},
		{"student_2", m.RoleStudent, &TestStudentUser2, nil, nil},
		{"company_user_1", m.RoleCompany, &TestCompanyUser1, &TestCompany1.ID, nil},
		{"company_user_2", m.RoleCompany, &TestCompanyUser2, &TestCompany2.ID, nil},
	}

	for _, spec := range userSpecs {
		email := spec.username + "@example.com"
		u := m.User{
			Username:  spec.username,
			Password:  hashedPwd,
			Role:      spec.role,
			CompanyID: spec.company,
			IesID:     spec.ies,
			EditableUserInfo: m.EditableUserInfo{
				FullName: spec.username,
				Email:    ptr(email),
			},
		}
		if err := db.Create(&u).Error; err != nil {
			return err
		}
		*spec.dst = u
	}

	// Student profiles.
	TestStudent1 = m.Student{
		UserID: TestStudentUser1.ID,
		EditableStudentInfo: m.EditableStudentInfo{
			Bio:              "Residente em desenvolvimento web",
			MainRole:         "Backend Developer",
			Skills:           pq.StringArray{"go", "sql"},
			EntryPeriod:      "2024.1",
			ClassName:        "Turma A",
			Shift:            "morning",
			IsEmbarqueHolder: boolPtr(true),
		},
		Status: m.StudentStatusActive,
	}
	TestStudent2 = m.Student{
		UserID: TestStudentUser2.ID,
		EditableStudentInfo: m.EditableStudentInfo{
			ClassName: "Turma A",
		},
		Status: m.StudentStatusActive,
	}
	if err := db.Create(&TestStudent1).Error; err != nil {
		return err
	}
	if err := db.Create(&TestStudent2).Error; err != nil {
		return err
	}

	// Jobs owned by the approved company. Job3 is closed.
	jobSpecs := []struct {
		title  string
		status string
		dst    *m.Job
	}{
		{"Desenvolvedor Go Júnior", m.JobStatusOpen, &TestJob1},
		{"Analista de Dados", m.JobStatusOpen, &TestJob2},
		{"Vaga Encerrada", m.JobStatusClosed, &TestJob3},
	}
	for _, spec := range jobSpecs {
		j := m.Job{
			CompanyID: TestCompany1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:       spec.title,
				Description: "Vaga da residência",
				SalaryRange: "R$ 2.000 - R$ 3.000",
				Location:    "Recife",
				Type:        "hybrid",
				Status:      spec.status,
			},
		}
		if err := db.Create(&j).Error; err != nil {
			return err
		}
		*spec.dst = j
	}

	// Student1 already applied to job2.
	TestApplication1 = m.JobApplication{
		JobID:     TestJob2.ID,
		StudentID: TestStudentUser1.ID,
		Status:    m.ApplicationStatusApplied,
	}
	if err := db.Create(&TestApplication1).Error; err != nil {
		return err
	}

	TestPeriod1 = m.ResidencyPeriod{
		Name:      "2025.1",
		StartDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:    m.PeriodStatusPlanning,
	}
	if err := db.Create(&TestPeriod1).Error; err != nil {
		return err
	}

	TestCard1 = m.IesCard{
		IesID:            TestIes1.ID,
		Title:            "DemoDay 2024",
		Content:          "Projetos vencedores do ciclo",
		Type:             m.CardTypeHighlight,
		IsFeaturedOnHome: true,
	}
	TestCard2 = m.IesCard{
		IesID:   TestIes1.ID,
		Title:   "Novas turmas",
		Content: "Inscrições abertas",
		Type:    m.CardTypeNews,
	}
	if err := db.Create(&TestCard1).Error; err != nil {
		return err
	}
	if err := db.Create(&TestCard2).Error; err != nil {
		return err
	}

	TestLanding1 = m.LandingImage{
		Title:      "Residência Tecnológica",
		ImageURL:   "https://storage.example.com/landing/slide-1.png",
		OrderIndex: 1,
		IsActive:   true,
	}
	TestLanding2 = m.LandingImage{
		Title:      "Embarque Digital",
		ImageURL:   "https://storage.example.com/landing/slide-2.png",
		OrderIndex: 2,
		IsActive:   false,
	}
	if err := db.Create(&TestLanding1).Error; err != nil {
		return err
	}
	if err := db.Create(&TestLanding2).Error; err != nil {
		return err
	}
	// gorm leaves zero-valued booleans at the column default on insert
	if err := db.Model(&TestLanding2).Update("is_active", false).Error; err != nil {
		return err
	}

	return nil
}
