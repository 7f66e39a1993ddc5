// Package obras scrapes the "Obras por Impuestos" public procurement portal.
// It reads a saved project listing page, fetches every project's detail page,
// extracts its fields and location table, and produces one consolidated CSV
// row per project.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package obras
