// Package main merges duplicate company rows left over from historic
// imports. For every set of companies sharing a normalized name the oldest
// row survives; jobs, users and projects pointing at the duplicates are
// repointed before the duplicates are removed.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/controller/project"
	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
)

func main() {
	// Duplicate names would make the unique-index migration fail, so
	// connect without migrating and bring the schema up to date after
	// the merge.
	db, err := database.GetRepairDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	var companies []model.Company
	if err := db.Order("created_at asc").Find(&companies).Error; err != nil {
		log.Fatalf("failed to fetch companies: %s", err)
	}

	// Oldest row per normalized name wins.
	keep := map[string]model.Company{}
	duplicates := map[string][]model.Company{}
	for _, company := range companies {
		key := project.NormalizeCompanyName(company.Name)
		if _, ok := keep[key]; !ok {
			keep[key] = company
			continue
		}
		duplicates[key] = append(duplicates[key], company)
	}

	if len(duplicates) == 0 {
		fmt.Println("no duplicate companies found")
		return
	}

	total := 0
	for key, rows := range duplicates {
		fmt.Printf("%s: keeping %s, removing %d duplicate(s)\n", key, keep[key].ID, len(rows))
		total += len(rows)
	}

	fmt.Printf("remove %d duplicate company row(s)? [yes/no]: ", total)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
		fmt.Println("aborted")
		return
	}

	for key, rows := range duplicates {
		survivor := keep[key]
		for _, dup := range rows {
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&model.Job{}).
					Where("company_id = ?", dup.ID).
					Update("company_id", survivor.ID).Error; err != nil {
					return err
				}
				if err := tx.Model(&model.User{}).
					Where("company_id = ?", dup.ID).
					Update("company_id", survivor.ID).Error; err != nil {
					return err
				}
				if err := tx.Model(&model.CompanyProject{}).
					Where("company_id = ?", dup.ID).
					Update("company_id", survivor.ID).Error; err != nil {
					return err
				}
				if err := tx.Model(&model.ResidencyAllocation{}).
					Where("company_id = ?", dup.ID).
					Update("company_id", survivor.ID).Error; err != nil {
					return err
				}
				return tx.Delete(&model.Company{}, "id = ?", dup.ID).Error
			})
			if err != nil {
				log.Fatalf("failed to merge %s into %s: %s", dup.ID, survivor.ID, err)
			}
		}
	}

	if err := db.Migrate(); err != nil {
		log.Fatalf("failed to migrate after merge: %s", err)
	}

	fmt.Printf("done, %d duplicate(s) merged\n", total)
}
