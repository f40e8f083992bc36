// Package models defines the registration entities persisted by the store.
package models

import "time"

// Registration is one customer's consignment submission for the bazar.
// Identifier is the external handle: generated server-side at creation,
// immutable afterwards, and the payload of the confirmation QR code. The
// storage layer's own primary key never leaves the store.
type Registration struct {
	Identifier string
	Name       string
	Phone      string
	Email      string
	Note       string
	Items      []LineItem
	CreatedAt  time.Time
}

// LineItem is one item offered within a registration. Items have no
// independent lifecycle: they are created and destroyed only with their
// owning registration, and their order is the submission order.
type LineItem struct {
	Description string
	Size        string
	Price       float64
}
