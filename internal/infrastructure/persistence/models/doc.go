// Package models contains the GORM persistence models behind the repositories.
// Domain entities stay free of ORM tags; each model converts to and from its
// entity with ToDomain and FromDomain.
package models
