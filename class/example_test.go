package class_test

import (
	"fmt"
	"time"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/zone"
)

func ExampleClass_String() {
	fmt.Println(class.Default)
	fmt.Println(class.All)
	// Output:
	// FIXED | STANDARD
	// FIXED | VARIABLE | STANDARD | LEGACY
}

func ExampleClassify() {
	z := zone.NewFixed("UTC+02:00", 2*time.Hour, 0)

	fmt.Println(class.Classify(z))
	fmt.Println(class.Classify(z, "europe", "backward"))
	// Output:
	// FIXED
	// FIXED | STANDARD | LEGACY
}

func ExampleClass_Has() {
	mask := class.Default

	fmt.Println(mask.Has(class.Fixed))
	fmt.Println(mask.Has(class.Legacy))
	// Output:
	// true
	// false
}
