// Package main seeds the partner institutions. Safe to run repeatedly:
// institutions that already exist are left untouched.
package main

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
)

var institutions = []model.Institution{
	{
		Name:        "UNICAP",
		StartPeriod: "2019.1",
		EditableIesInfo: model.EditableIesInfo{
			Website: "https://portal.unicap.br",
		},
	},
	{
		Name:        "CESAR School",
		StartPeriod: "2019.1",
		EditableIesInfo: model.EditableIesInfo{
			Website: "https://cesar.school",
		},
	},
	{
		Name:        "UFRPE",
		StartPeriod: "2021.1",
		EditableIesInfo: model.EditableIesInfo{
			Website: "https://ufrpe.br",
		},
	},
	{
		Name:        "Faculdade Senac PE",
		StartPeriod: "2022.2",
		EditableIesInfo: model.EditableIesInfo{
			Website: "https://faculdadesenacpe.edu.br",
		},
	},
}

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	created := 0
	for _, institution := range institutions {
		var existing model.Institution
		err := db.Where("name = ?", institution.Name).First(&existing).Error
		switch {
		case err == nil:
			fmt.Printf("skip %s: already seeded\n", institution.Name)
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&institution).Error; err != nil {
				log.Fatalf("failed to seed %s: %s", institution.Name, err)
			}
			fmt.Printf("seeded %s\n", institution.Name)
			created++
		default:
			log.Fatalf("failed to check %s: %s", institution.Name, err)
		}
	}

	fmt.Printf("done, %d institution(s) created\n", created)
}
