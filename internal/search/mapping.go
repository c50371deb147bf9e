package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// Every field uses the keyword analyzer: values are folded before indexing,
// and a whole-value token lets a regexp query express "contains".
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()

	keywordField := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.IncludeTermVectors = false
		return fm
	}

	docMapping.AddFieldMappingsAt("id", keywordField())
	docMapping.AddFieldMappingsAt("type", keywordField())
	docMapping.AddFieldMappingsAt("name_folded", keywordField())
	docMapping.AddFieldMappingsAt("price_text", keywordField())
	docMapping.AddFieldMappingsAt("status", keywordField())
	docMapping.AddFieldMappingsAt("category_id", keywordField())

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
