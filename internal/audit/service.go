package audit

import (
	"encoding/json"
	"fmt"

	"mirotec-backend/internal/config"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/models"
)

type LogOptions struct {
	CompanyID   uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    any
	Action      models.AuditAction
	Description string
	Before      any
	After       any
	RequestID   string
}

// WriteLog records who changed what. It runs after the command committed, so a
// failure here is logged and reported but never undoes the change itself.
func WriteLog(opts LogOptions) error {
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		CompanyID:   opts.CompanyID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    fmt.Sprint(opts.EntityID),
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		RequestID:   opts.RequestID,
	}

	if database.DB == nil {
		return nil
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		config.LogError(config.GetLogger(), "audit", "WriteLog", "could not save audit log", opts.EntityType, err)
		return fmt.Errorf("could not save audit log: %w", err)
	}
	return nil
}
