package database

import (
	"gorm.io/gorm"
)

type Database struct {
	projectRepo  *ProjectRepo
	contactRepo  *ContactRepo
	profileRepo  *ProfileRepo
	userRepo     *UserRepo
	settingsRepo *SettingsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:  NewProjectRepo(db),
		contactRepo:  NewContactRepo(db),
		profileRepo:  NewProfileRepo(db),
		userRepo:     NewUserRepo(db),
		settingsRepo: NewSettingsRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}
