// Package stacklens classifies detected technology signals into a complete,
// deduplicated five-domain taxonomy (Backend, Frontend, Databases, DevOps,
// Others), each domain subdivided into semantic subcategories.
//
// Quick start:
//
//	c, err := stacklens.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tax := c.CategorizeNames("django", "react", "postgresql")
//	fmt.Println(tax.TotalTechnologies) // 3
//
// The Categorizer is safe for concurrent use. Every result contains all five
// categories with their full subcategory sets, even for empty input; a
// degraded run is flagged via Processing.FallbackMode rather than an error.
package stacklens
