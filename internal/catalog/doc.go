// Package catalog persists imported book records in a SQLite database.
//
// The store is a plain sink: it keeps whatever records it is given and
// performs no de-duplication, so importing the same file twice yields two
// rows with distinct identifiers.
package catalog
