// Package service implements the business rules of the rescue backend:
// report lifecycle and moderation, the proximity feed, community posts
// with notification fan-out, and identity resolution.
package service

import (
	"pawrescue/config"
	"pawrescue/database"
	"pawrescue/identity"
	"pawrescue/intelligence"
	"pawrescue/storage"
)

// Service wires the repositories and external collaborators together.
type Service struct {
	db       *database.Database
	cfg      *config.Config
	analysis *intelligence.Client
	idp      *identity.Client
	uploads  storage.Uploader
}

// New creates a Service.
func New(db *database.Database, cfg *config.Config, analysis *intelligence.Client, idp *identity.Client, uploads storage.Uploader) *Service {
	return &Service{
		db:       db,
		cfg:      cfg,
		analysis: analysis,
		idp:      idp,
		uploads:  uploads,
	}
}
