// Package patentenrich enriches a portfolio of patent identifiers with
// bibliographic data from the USPTO weekly grant archives and citation data
// scraped from the public patent viewer.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., etree/, goquery/, sqlite/).
package patentenrich
