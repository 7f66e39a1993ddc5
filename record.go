package obras

import (
	"context"
	"strconv"
)

// Columns is the header of the output file. Downstream consumers rely on
// this exact order.
var Columns = []string{
	"Index",
	"BPIN",
	"Name",
	"name Corr",
	"Meta Title",
	"SLUG",
	"Objective",
	"Objective Corrected",
	"Cost",
	"Beneficiaries",
	"Viabilization Date",
	"Sector",
	"Sector Corr",
	"Preinvestment Costs",
	"Classification",
	"Location Data",
	"LOC TABLE",
	"Deptos",
	"Jsonld",
}

// OutputRecord is one row of the output file.
type OutputRecord struct {
	Index              int    `json:"index"`
	BPIN               string `json:"bpin"`
	Name               string `json:"name"`
	NameCorrected      string `json:"nameCorrected"`
	MetaTitle          string `json:"metaTitle"`
	Slug               string `json:"slug"`
	Objective          string `json:"objective"`
	ObjectiveCorrected string `json:"objectiveCorrected"`
	Cost               string `json:"cost"`
	Beneficiaries      string `json:"beneficiaries"`
	ViabilizationDate  string `json:"viabilizationDate"`
	Sector             string `json:"sector"`
	SectorCorrected    string `json:"sectorCorrected"`
	Preinvestment      string `json:"preinvestment"`
	Classification     string `json:"classification"`
	LocationData       string `json:"locationData"`
	LocationTable      string `json:"locationTable"`
	Departments        string `json:"departments"`
	JSONLD             string `json:"jsonld"`
}

// Row returns the record's values in Columns order.
func (r *OutputRecord) Row() []string {
	return []string{
		strconv.Itoa(r.Index),
		r.BPIN,
		r.Name,
		r.NameCorrected,
		r.MetaTitle,
		r.Slug,
		r.Objective,
		r.ObjectiveCorrected,
		r.Cost,
		r.Beneficiaries,
		r.ViabilizationDate,
		r.Sector,
		r.SectorCorrected,
		r.Preinvestment,
		r.Classification,
		r.LocationData,
		r.LocationTable,
		r.Departments,
		r.JSONLD,
	}
}

// BuildRecord derives the display fields for a parsed detail page and
// assembles the output row. index is the project's position in the listing.
func BuildRecord(index int, d *ProjectDetail) (*OutputRecord, error) {
	jsonld, err := GeoSnippet(d.Locations)
	if err != nil {
		return nil, err
	}

	nameCorr := Correct(d.Name)
	return &OutputRecord{
		Index:              index,
		BPIN:               d.BPIN,
		Name:               d.Name,
		NameCorrected:      nameCorr,
		MetaTitle:          MetaTitle(nameCorr),
		Slug:               Slug(nameCorr),
		Objective:          d.Objective,
		ObjectiveCorrected: Correct(d.Objective),
		Cost:               d.Cost,
		Beneficiaries:      d.Beneficiaries,
		ViabilizationDate:  d.ViabilizationDate,
		Sector:             d.Sector,
		SectorCorrected:    Correct(d.Sector),
		Preinvestment:      d.Preinvestment,
		Classification:     d.Classification,
		LocationData:       FormatLocations(d.Locations),
		LocationTable:      d.LocationTableHTML,
		Departments:        Departments(d.Locations),
		JSONLD:             jsonld,
	}, nil
}

// RecordStore persists output records with atomic semantics.
// Save stages a record; Commit makes all staged records permanent;
// Abort discards them.
type RecordStore interface {
	Save(ctx context.Context, rec *OutputRecord) error
	Commit() error
	Abort() error
}

// MultiStore fans records out to several stores. Commit runs in argument
// order and stops at the first failure, aborting the stores not yet
// committed. Stores already committed stay committed.
func MultiStore(stores ...RecordStore) RecordStore {
	return multiStore(stores)
}

type multiStore []RecordStore

func (m multiStore) Save(ctx context.Context, rec *OutputRecord) error {
	for _, s := range m {
		if err := s.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (m multiStore) Commit() error {
	for i, s := range m {
		if err := s.Commit(); err != nil {
			_ = m[i+1:].Abort()
			return err
		}
	}
	return nil
}

func (m multiStore) Abort() error {
	var first error
	for _, s := range m {
		if err := s.Abort(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
