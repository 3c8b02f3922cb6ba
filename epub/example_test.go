package epub_test

import (
	"fmt"
	"log"

	"github.com/simp-lee/shelf/epub"
)

func ExampleOpen() {
	book, err := epub.Open("testdata/book.epub")
	if err != nil {
		log.Fatal(err)
	}
	defer book.Close()

	if title, ok := book.Metadata().Title(); ok {
		fmt.Println(title)
	}
}

func ExampleBook_DeclaredCover() {
	book, err := epub.Open("testdata/book.epub")
	if err != nil {
		log.Fatal(err)
	}
	defer book.Close()

	cover, err := book.DeclaredCover()
	if err != nil {
		fmt.Println("no cover:", err)
		return
	}
	fmt.Println(cover.Path, cover.MediaType, len(cover.Data))
}

func ExamplePlainText() {
	text, _ := epub.PlainText("<p>A <em>desert</em> planet.</p><p>Spice.</p>")
	fmt.Println(text)
	// Output:
	// A desert planet.
	// Spice.
}
