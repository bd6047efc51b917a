package domain

import (
	"math"
	"strings"
	"time"
)

// WarehouseStatus é o estado operacional de um armazém.
type WarehouseStatus string

const (
	WarehouseActive      WarehouseStatus = "active"
	WarehouseInactive    WarehouseStatus = "inactive"
	WarehouseMaintenance WarehouseStatus = "maintenance"
)

// Warehouse representa um armazém físico no sistema.
// Occupied nunca pode ultrapassar Capacity (verificado na validação).
type Warehouse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name" validate:"required,min=3,max=100"`
	Code         string          `json:"code" validate:"required,whcode"`
	Address      Address         `json:"address"`
	ContactPhone string          `json:"contact_phone,omitempty" validate:"omitempty,phone"`
	ContactEmail string          `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	Capacity     int             `json:"capacity" validate:"gte=0,lte=100000000"`
	Occupied     int             `json:"occupied" validate:"gte=0,ltefield=Capacity"`
	Status       WarehouseStatus `json:"status" validate:"required,oneof=active inactive maintenance"`
	IsVerified   bool            `json:"is_verified"`
	Amenities    []string        `json:"amenities" validate:"max=30,dive,required,max=50"`
	Utilization  float64         `json:"utilization"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Normalize prepara o armazém para validação e persistência: código em maiúsculas,
// status padrão e amenidades sem espaços.
func (w *Warehouse) Normalize() {
	w.Name = strings.TrimSpace(w.Name)
	w.Code = strings.ToUpper(strings.TrimSpace(w.Code))
	w.ContactEmail = strings.TrimSpace(w.ContactEmail)
	w.ContactPhone = strings.TrimSpace(w.ContactPhone)
	if w.Status == "" {
		w.Status = WarehouseActive
	}
	w.Address.Normalize()

	amenities := make([]string, 0, len(w.Amenities))
	for _, a := range w.Amenities {
		amenities = append(amenities, strings.TrimSpace(a))
	}
	w.Amenities = amenities
}

// ComputeUtilization calcula o percentual ocupado (duas casas decimais).
func (w *Warehouse) ComputeUtilization() {
	if w.Capacity <= 0 {
		w.Utilization = 0
		return
	}
	w.Utilization = math.Round(float64(w.Occupied)/float64(w.Capacity)*10000) / 100
}

// WarehouseFilter define os filtros da listagem de armazéns.
type WarehouseFilter struct {
	ListParams
	Status WarehouseStatus
}
