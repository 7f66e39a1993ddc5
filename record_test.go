package obras_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/obras"
	"github.com/fwojciec/obras/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecord(t *testing.T) {
	t.Parallel()

	t.Run("derives display fields", func(t *testing.T) {
		t.Parallel()

		detail := &obras.ProjectDetail{
			BPIN:              "20230001",
			Name:              "  dotación   de aulas  en Medellín ",
			Objective:         "mejorar\nla calidad",
			Cost:              "$ 1.000.000",
			Beneficiaries:     "350",
			ViabilizationDate: "12/05/2023",
			Sector:            "educación",
			Preinvestment:     "0",
			Classification:    "Convocatoria",
			LocationTableHTML: `<table id="_tblDetallePryecto" class="ubicacion-proyecto"></table>`,
			Locations: []obras.LocationRow{
				{Department: "Antioquia", Code: "05001", Municipality: "Medellín"},
				{Department: "Antioquia", Code: "05002", Municipality: "Abejorral"},
			},
		}

		rec, err := obras.BuildRecord(7, detail)

		require.NoError(t, err)
		assert.Equal(t, 7, rec.Index)
		assert.Equal(t, detail.Name, rec.Name)
		assert.Equal(t, "Dotación de aulas en Medellín", rec.NameCorrected)
		assert.Equal(t, "Short headline: Dotación de aulas en Medellín", rec.MetaTitle)
		assert.Equal(t, "dotacion-de-aulas-en-medellin", rec.Slug)
		assert.Equal(t, "Mejorar la calidad", rec.ObjectiveCorrected)
		assert.Equal(t, "Educación", rec.SectorCorrected)
		assert.Equal(t, "Antioquia", rec.Departments)
		assert.Equal(t, "[['Antioquia', '05001', 'Medellín'], ['Antioquia', '05002', 'Abejorral']]", rec.LocationData)
		assert.Equal(t, detail.LocationTableHTML, rec.LocationTable)
		assert.Contains(t, rec.JSONLD, `"addressLocality": "Medellín"`)
	})

	t.Run("no locations", func(t *testing.T) {
		t.Parallel()

		rec, err := obras.BuildRecord(0, &obras.ProjectDetail{})

		require.NoError(t, err)
		assert.Equal(t, "[]", rec.LocationData)
		assert.Empty(t, rec.Departments)
		assert.Empty(t, rec.JSONLD)
		assert.Empty(t, rec.Slug)
		assert.Equal(t, "Short headline: ", rec.MetaTitle)
	})
}

func TestOutputRecord_Row(t *testing.T) {
	t.Parallel()

	rec, err := obras.BuildRecord(3, &obras.ProjectDetail{
		BPIN:           "B",
		Name:           "n",
		Classification: "C",
		Locations:      []obras.LocationRow{{Department: "D", Code: "1", Municipality: "M"}},
	})
	require.NoError(t, err)

	row := rec.Row()

	require.Len(t, row, len(obras.Columns))
	assert.Equal(t, "3", row[0])
	assert.Equal(t, "B", row[1])
	assert.Equal(t, "N", row[3])
	assert.Equal(t, "n", row[5])
	assert.Equal(t, "C", row[14])
	assert.Equal(t, "D", row[17])
	assert.Equal(t, rec.JSONLD, row[18])
}

func TestColumns(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"Index", "BPIN", "Name", "name Corr", "Meta Title", "SLUG",
		"Objective", "Objective Corrected", "Cost", "Beneficiaries",
		"Viabilization Date", "Sector", "Sector Corr", "Preinvestment Costs",
		"Classification", "Location Data", "LOC TABLE", "Deptos", "Jsonld",
	}, obras.Columns)
}

func TestMultiStore(t *testing.T) {
	t.Parallel()

	t.Run("saves and commits to every store", func(t *testing.T) {
		t.Parallel()

		var saved, committed []string
		newStore := func(name string) *mock.RecordStore {
			return &mock.RecordStore{
				SaveFn: func(ctx context.Context, rec *obras.OutputRecord) error {
					saved = append(saved, name)
					return nil
				},
				CommitFn: func() error {
					committed = append(committed, name)
					return nil
				},
			}
		}

		store := obras.MultiStore(newStore("csv"), newStore("db"))

		require.NoError(t, store.Save(context.Background(), &obras.OutputRecord{}))
		require.NoError(t, store.Commit())
		assert.Equal(t, []string{"csv", "db"}, saved)
		assert.Equal(t, []string{"csv", "db"}, committed)
	})

	t.Run("commit failure aborts the stores after it", func(t *testing.T) {
		t.Parallel()

		var calls []string
		newStore := func(name string, commitErr error) *mock.RecordStore {
			return &mock.RecordStore{
				CommitFn: func() error { calls = append(calls, "commit "+name); return commitErr },
				AbortFn:  func() error { calls = append(calls, "abort "+name); return nil },
			}
		}

		err := obras.MultiStore(newStore("db", errors.New("locked")), newStore("csv", nil)).Commit()

		require.EqualError(t, err, "locked")
		assert.Equal(t, []string{"commit db", "abort csv"}, calls)
	})

	t.Run("aborts every store and returns first error", func(t *testing.T) {
		t.Parallel()

		var aborted int
		first := &mock.RecordStore{AbortFn: func() error { aborted++; return errors.New("first") }}
		second := &mock.RecordStore{AbortFn: func() error { aborted++; return nil }}

		err := obras.MultiStore(first, second).Abort()

		require.EqualError(t, err, "first")
		assert.Equal(t, 2, aborted)
	})
}
