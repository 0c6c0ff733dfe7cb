// Package models defines the user records exchanged with the Backend Service
// and the storage type selectors of the reference backend.
package models

import "errors"

// UserPayload is the body of create and update requests.
type UserPayload struct {
	Name    string `json:"name" validate:"notblank"`
	Mobile  string `json:"mobile" validate:"notblank,len=10,number"`
	State   string `json:"state" validate:"notblank,state"`
	City    string `json:"city" validate:"notblank"`
	Address string `json:"address" validate:"notblank"`
}

// UserRecord is one registrant as stored by the Backend Service.
// ID is assigned by the backend and is empty until the first save.
type UserRecord struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	State   string `json:"state"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Users is an ordered list of records.
type Users []UserRecord

// Payload returns the editable fields of the record.
func (r UserRecord) Payload() UserPayload {
	return UserPayload{
		Name:    r.Name,
		Mobile:  r.Mobile,
		State:   r.State,
		City:    r.City,
		Address: r.Address,
	}
}

// Merge returns a copy of the record with every editable field overwritten by payload.
// The id is kept.
func (r UserRecord) Merge(payload UserPayload) UserRecord {
	r.Name = payload.Name
	r.Mobile = payload.Mobile
	r.State = payload.State
	r.City = payload.City
	r.Address = payload.Address
	return r
}

// NewUserRecord builds a record with the given id from payload.
func NewUserRecord(id string, payload UserPayload) UserRecord {
	return UserRecord{ID: id}.Merge(payload)
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

// ErrUserNotFound is returned by storages when no record has the requested id.
var ErrUserNotFound = errors.New("user not found")
