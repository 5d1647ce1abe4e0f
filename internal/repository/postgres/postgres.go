package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/scheduling-api/internal/repository"
)

type clinicRepository struct {
	db *sqlx.DB
}

type roomRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type specialistRepository struct {
	db *sqlx.DB
}

type timeOffRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{db: db}
}

func NewRoomRepository(db *sqlx.DB) repository.RoomRepository {
	return &roomRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewSpecialistRepository(db *sqlx.DB) repository.SpecialistRepository {
	return &specialistRepository{db: db}
}

func NewTimeOffRepository(db *sqlx.DB) repository.TimeOffRepository {
	return &timeOffRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}
