package text_test

import (
	"fmt"

	"github.com/walteh/hekit/pkg/text"
)

func ExampleParseReplace() {
	// Parse the user-facing syntax
	regex, err := text.ParseReplace(`/(\d{4})(\d{2})(\d{2})/${1}-${2}-${3}/`)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	literal, err := text.ParseReplace("IMG=photo")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Apply in order
	name, n := regex.Apply("IMG_20240131")
	name, m := literal.Apply(name)

	fmt.Printf("Modified: %s\n", name)
	fmt.Printf("Replacements: %d\n", n+m)

	// Output:
	// Modified: photo_2024-01-31
	// Replacements: 2
}
