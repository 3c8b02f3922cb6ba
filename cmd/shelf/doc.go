// Command shelf imports ePub files into a local catalog.
//
// Each import extracts the book's metadata, writes a normalized WebP cover
// thumbnail under the data directory and stores the resulting record in a
// SQLite catalog:
//
//	shelf import ~/Downloads/*.epub
//	shelf list
//	shelf show 3f0c...
//	shelf cover 3f0c... scan.jpg
//	shelf config init
package main
