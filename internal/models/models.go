// Package models defines the GORM models for the portfolio schema.
package models

// All lists the data models, parents first.
var All = []interface{}{
	&Client{},
	&Portfolio{},
	&Asset{},
	&Price{},
	&Trade{},
	&AssetNote{},
}
