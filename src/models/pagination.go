package models

import "math"

// PaginationParams ใช้เก็บค่าการแบ่งหน้าของรายการแบบสอบถาม
type PaginationParams struct {
	Page  int    `json:"page" query:"page" example:"1"`      // หมายเลขหน้าที่ต้องการ (0 = ทั้งหมด)
	Limit int    `json:"limit" query:"limit" example:"10"`   // จำนวนรายการต่อหน้า (0 = ทั้งหมด)
	Order string `json:"order" query:"order" example:"desc"` // ทิศทางการเรียงตาม createdAt (asc/desc)
}

// PaginatedResponse โครงสร้างการตอบกลับแบบแบ่งหน้า
type PaginatedResponse struct {
	Success     bool        `json:"success"`
	Data        interface{} `json:"surveys"`
	Total       int64       `json:"total"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	TotalPages  int         `json:"totalPages"`
	HasNext     bool        `json:"hasNext"`
	HasPrevious bool        `json:"hasPrevious"`
}

// DefaultPagination returns every survey, newest first.
func DefaultPagination() PaginationParams {
	return PaginationParams{Order: "desc"}
}

// Paged reports whether both page and limit were supplied.
func (p PaginationParams) Paged() bool {
	return p.Page > 0 && p.Limit > 0
}

// GetSkip คำนวณจำนวนรายการที่ต้องข้าม
func (p PaginationParams) GetSkip() int64 {
	if !p.Paged() {
		return 0
	}
	return int64((p.Page - 1) * p.Limit)
}

// SortDirection returns 1 for asc and -1 otherwise.
func (p PaginationParams) SortDirection() int {
	if p.Order == "asc" {
		return 1
	}
	return -1
}

// NewPaginatedResponse สร้าง PaginatedResponse ใหม่
func NewPaginatedResponse(data interface{}, total int64, params PaginationParams) *PaginatedResponse {
	page, limit, totalPages := 1, int(total), 1
	if params.Paged() {
		page, limit = params.Page, params.Limit
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return &PaginatedResponse{
		Success:     true,
		Data:        data,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
