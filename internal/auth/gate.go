// Package auth implements the access gate and session handling for the
// exhibitor dashboard.
//
// Access control is deliberately thin: one shared password for all
// exhibitors, and a login name that must match an exhibitor present in the
// current bookings snapshot. There is no account store and no logout
// transition; a session exists from successful login until it expires.
package auth

import (
	"crypto/subtle"
	"errors"
)

// ErrInvalidCredentials is returned when the login name or password does not
// check out. The caller re-prompts; no session state changes.
var ErrInvalidCredentials = errors.New("invalid exhibitor name or password")

// ExhibitorDirectory supplies the set of valid login names. Implemented by
// the source snapshot cache so the gate always checks against the current
// bookings table.
type ExhibitorDirectory interface {
	Exhibitors() []string
}

// Gate validates login attempts against the shared password and the
// exhibitor directory.
type Gate struct {
	password  string
	directory ExhibitorDirectory
}

// NewGate creates a Gate. password is the shared secret every exhibitor
// uses; directory supplies the valid exhibitor names.
func NewGate(password string, directory ExhibitorDirectory) *Gate {
	return &Gate{password: password, directory: directory}
}

// Login checks a (name, password) pair. On success it returns the exhibitor
// name as authenticated; otherwise ErrInvalidCredentials.
//
// The password comparison is constant-time, and the directory scan always
// walks every name so a rejected attempt does not reveal which of the two
// inputs was wrong.
func (g *Gate) Login(name, password string) (string, error) {
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1

	nameOK := 0
	for _, exhibitor := range g.directory.Exhibitors() {
		nameOK |= subtle.ConstantTimeCompare([]byte(name), []byte(exhibitor))
	}

	if !passOK || nameOK != 1 {
		return "", ErrInvalidCredentials
	}
	return name, nil
}
