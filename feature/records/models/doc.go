// Package models defines the GORM row type of the qr_records table.
package models
