package models

import "time"

// Company owns users, departments and QR codes. Timezone is either an IANA
// name ("America/Phoenix") or a fixed UTC offset ("-07:00"); empty means the
// configured default.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Timezone  string    `gorm:"size:64" json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Department groups users inside a company.
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CompanyID uint      `gorm:"uniqueIndex:idx_department_company_name;not null" json:"company_id"`
	Name      string    `gorm:"size:128;uniqueIndex:idx_department_company_name;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
