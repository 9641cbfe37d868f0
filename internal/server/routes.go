package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "github.com/Kevengrf/residencia-onboard/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Kevengrf/residencia-onboard/internal/auth"
	"github.com/Kevengrf/residencia-onboard/internal/controller/application"
	"github.com/Kevengrf/residencia-onboard/internal/controller/company"
	"github.com/Kevengrf/residencia-onboard/internal/controller/file"
	"github.com/Kevengrf/residencia-onboard/internal/controller/identity"
	"github.com/Kevengrf/residencia-onboard/internal/controller/ies"
	"github.com/Kevengrf/residencia-onboard/internal/controller/job"
	"github.com/Kevengrf/residencia-onboard/internal/controller/landing"
	"github.com/Kevengrf/residencia-onboard/internal/controller/management"
	"github.com/Kevengrf/residencia-onboard/internal/controller/match"
	"github.com/Kevengrf/residencia-onboard/internal/controller/project"
	"github.com/Kevengrf/residencia-onboard/internal/controller/student"
	"github.com/Kevengrf/residencia-onboard/internal/middleware"
	"github.com/Kevengrf/residencia-onboard/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.openid",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.BlacklistStore)

	fileCtrl := file.NewFileController(s.DB, s.Storage)
	identityCtrl := identity.NewIdentityController(s.DB)
	companyCtrl := company.NewCompanyController(s.DB, s.Storage)
	jobCtrl := job.NewJobController(s.DB)
	applicationCtrl := application.NewApplicationController(s.DB)
	matchCtrl := match.NewMatchController(s.DB)
	studentCtrl := student.NewStudentController(s.DB, s.Storage)
	managementCtrl := management.NewManagementController(s.DB)
	projectCtrl := project.NewProjectController(s.DB)
	iesCtrl := ies.NewIesController(s.DB, s.Storage)
	landingCtrl := landing.NewLandingController(s.DB, s.Storage)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		// Public routes
		v1.GET("companies", companyCtrl.ListCompanies)
		v1.GET("companies/:id", companyCtrl.GetCompanyByID)
		v1.GET("ies", iesCtrl.ListIes)
		v1.GET("ies/:id", iesCtrl.GetIesByID)
		v1.GET("talents", studentCtrl.Talents)
		v1.GET("landing-images", landingCtrl.ListActive)
		v1.GET("home/highlights", iesCtrl.HomeHighlights)
		v1.GET("periods/:id/projects", projectCtrl.PeriodProjects)

		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("google/student", gAuth.StudentGoogleLoginHandler)
			authRoute.POST("google/company", gAuth.CompanyGoogleLoginHandler)

			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(s.BlacklistStore))
			needAuth.POST("auth/logout", logout.LogoutHandler)
			needAuth.GET("me", identityCtrl.Resolve)

			fileRoute := needAuth.Group("/files")
			{
				fileRoute.GET(":id", fileCtrl.GetFile)
			}

			needAuth.GET("jobs/:id", jobCtrl.GetJobByID)
			needAuth.DELETE("jobs/:id", jobCtrl.DeleteJob)
			needAuth.GET("jobs/:id/applications", jobCtrl.JobApplications)

			studentRoute := needAuth.Group("/student")
			{
				studentRoute.Use(middleware.CheckRole(model.RoleStudent))
				studentRoute.GET("myprofile", studentCtrl.GetMyProfile)
				studentRoute.PATCH("myprofile", studentCtrl.EditProfile)
				studentRoute.POST("avatar", middleware.SizeLimit(10<<20), studentCtrl.UploadAvatar)
				studentRoute.GET("deck", matchCtrl.GetDeck)
				studentRoute.GET("applications", applicationCtrl.MyApplications)
				studentRoute.GET("projects", studentCtrl.MyProjects)
			}
			needAuth.POST("jobs/:id/apply", middleware.CheckRole(model.RoleStudent), applicationCtrl.Apply)

			companyRoute := needAuth.Group("/company")
			{
				companyRoute.Use(middleware.CheckRole(model.RoleCompany))
				companyRoute.GET("myprofile", companyCtrl.GetMyProfile)
				companyRoute.POST("organization", companyCtrl.CreateOrganization)

				// Everything below requires an approved company.
				approved := companyRoute.Group("")
				{
					approved.Use(middleware.CheckApproved(s.DB))
					approved.PATCH("myprofile", companyCtrl.EditProfile)
					approved.POST("logo", middleware.SizeLimit(10<<20), companyCtrl.UploadLogo)
					approved.POST("cover", middleware.SizeLimit(10<<20), companyCtrl.UploadCover)
					approved.POST("jobs", jobCtrl.CreateJob)
					approved.GET("jobs", jobCtrl.MyPosts)
					approved.PATCH("jobs/:id", jobCtrl.EditJob)
				}
			}
			needAuth.PATCH("applications/:id",
				middleware.CheckRole(model.RoleCompany),
				middleware.CheckApproved(s.DB),
				applicationCtrl.UpdateStatus)

			iesRoute := needAuth.Group("/ies")
			{
				iesRoute.Use(middleware.CheckRole(model.RoleIes, model.RoleManagement))
				iesRoute.PATCH("myprofile", iesCtrl.EditProfile)
				iesRoute.POST("cards", iesCtrl.CreateCard)
				iesRoute.PATCH("cards/:id/feature", iesCtrl.ToggleCardFeature)
				iesRoute.POST("cards/:id/image", middleware.SizeLimit(10<<20), iesCtrl.UploadCardImage)
				iesRoute.DELETE("cards/:id", iesCtrl.DeleteCard)
			}

			managementRoute := needAuth.Group("/management")
			{
				managementRoute.Use(middleware.CheckRole(model.RoleManagement))
				managementRoute.GET("companies", managementCtrl.GetCompanies)
				managementRoute.PATCH("companies/:id/status", managementCtrl.UpdateCompanyStatus)
				managementRoute.POST("periods", managementCtrl.CreatePeriod)
				managementRoute.GET("periods", managementCtrl.GetPeriods)
				managementRoute.POST("allocations", managementCtrl.CreateAllocations)
				managementRoute.GET("allocations", managementCtrl.GetAllocations)
				managementRoute.DELETE("allocations/:id", managementCtrl.DeleteAllocation)
				managementRoute.GET("students", managementCtrl.GetStudents)
				managementRoute.PATCH("students/:id", managementCtrl.UpdateStudent)
				managementRoute.POST("projects/import", projectCtrl.ImportHistoric)
				managementRoute.POST("landing-images", middleware.SizeLimit(10<<20), landingCtrl.Create)
				managementRoute.PATCH("landing-images/:id/toggle", landingCtrl.ToggleActive)
				managementRoute.DELETE("landing-images/:id", landingCtrl.Delete)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
