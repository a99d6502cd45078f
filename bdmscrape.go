// Package bdmscrape scrapes article listings and article pages from a news
// site, extracts structured article records (title, author, date, images,
// body text) and stores them keyed by URL.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package bdmscrape
