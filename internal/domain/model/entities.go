package model

import "time"

// Worker is a registered factory worker. Events may only reference
// workers that already exist; ingestion never creates them implicitly.
type Worker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WorkerID  string    `gorm:"uniqueIndex;size:50" json:"worker_id"`
	Name      string    `gorm:"size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the storage table name.
func (Worker) TableName() string { return "workers" }

// Workstation is a physical station on the factory floor.
type Workstation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StationID   string    `gorm:"uniqueIndex;size:50" json:"station_id"`
	Name        string    `gorm:"size:100" json:"name"`
	StationType string    `gorm:"size:100" json:"station_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName pins the storage table name.
func (Workstation) TableName() string { return "workstations" }
