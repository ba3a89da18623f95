package stacklens_test

import (
	"fmt"
	"log"

	"github.com/crimson-sun/stacklens/pkg/stacklens"
)

func Example() {
	c, err := stacklens.New()
	if err != nil {
		log.Fatal(err)
	}

	tax := c.Categorize([]stacklens.Signal{
		{Name: "django", Version: "4.2.0", Source: "manifest:requirements.txt"},
		{Name: "react", Source: "manifest:package.json"},
		{Name: "postgresql", Source: "config-file:settings.py"},
	})

	fmt.Printf("technologies: %d\n", tax.TotalTechnologies)
	for _, name := range tax.Layout.CategoryOrder {
		cat := tax.Categories[name]
		if cat.TotalCount == 0 {
			continue
		}
		for _, sub := range []string{"frameworks", "sql-databases"} {
			for _, tech := range cat.Subcategories[sub].Technologies {
				fmt.Printf("%s/%s: %s\n", name, sub, tech.Name)
			}
		}
	}
	// Output:
	// technologies: 3
	// backend/frameworks: Django
	// frontend/frameworks: React
	// databases/sql-databases: PostgreSQL
}
