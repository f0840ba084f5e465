// Package bibdex provides a Go client for the bibdex search API.
//
// Every entity (manuscript, person, occurrence, type, bibliography) is
// searched the same way: filters, paging and ordering go in, a page of
// records and the facet values for the current selection come out.
//
//	client, _ := bibdex.New("http://localhost:8080", bibdex.WithEditorKey(key))
//	res, _ := client.Search(ctx, "manuscript", bibdex.SearchParams{
//	    Filters: map[string]any{"city": 7},
//	    OrderBy: []string{"name"},
//	    Ascending: true,
//	})
//	for _, city := range res.Aggregation["city"] {
//	    fmt.Println(city.Name, city.Count)
//	}
//
// Without an editor key the client sees the public view: internal-only
// filters are ignored and private fields are removed from results.
package bibdex
