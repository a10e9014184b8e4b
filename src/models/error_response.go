package models

// ErrorResponse โครงสร้างมาตรฐานสำหรับการส่ง Error
type ErrorResponse struct {
	Success bool     `json:"success"`           // always false
	Status  int      `json:"status"`            // HTTP Status Code
	Message string   `json:"message"`           // รายละเอียดของ Error
	Missing []string `json:"missing,omitempty"` // required question ids left unanswered
}

// MessageResponse is the body of endpoints that only acknowledge an action.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
