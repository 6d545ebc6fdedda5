package repository

import (
	"github.com/spec-kit/lead-capture-service/internal/persistence"
)

// Repositories bundles every repository for the opened store.
type Repositories struct {
	Records  RecordStore
	Contacts ContactRepository
	Leads    LeadRepository
	Users    UserRepository
	Profiles ProfileRepository
}

// New picks the implementations matching the store driver.
func New(store *persistence.Store) *Repositories {
	if store.SQLite != nil {
		db := store.SQLite.DB
		return &Repositories{
			Records:  NewSQLiteRecordRepository(db),
			Contacts: NewSQLiteContactRepository(db),
			Leads:    NewSQLiteLeadRepository(db),
			Users:    NewSQLiteUserRepository(db),
			Profiles: NewSQLiteProfileRepository(db),
		}
	}
	pool := store.Postgres.Pool
	return &Repositories{
		Records:  NewRecordRepository(pool),
		Contacts: NewContactRepository(pool),
		Leads:    NewLeadRepository(pool),
		Users:    NewUserRepository(pool),
		Profiles: NewProfileRepository(pool),
	}
}
