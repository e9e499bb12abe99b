package booking

import (
	"testing"

	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFilled(t *testing.T) {
	assert.False(t, IsFilled(nil))
	assert.False(t, IsFilled(""))
	assert.False(t, IsFilled("   "))

	assert.True(t, IsFilled(0))
	assert.True(t, IsFilled(0.0))
	assert.True(t, IsFilled(false))
	assert.True(t, IsFilled("x"))
}

func TestValidateCustomSection(t *testing.T) {
	schema := loadSampleSchema(t)
	fields := store.NewMemoryFieldStore()
	v := NewValidator(schema, fields)

	// No cus_01 entry at all: every required field is missing.
	missing := v.ValidateCustomSection("cus_01")
	assert.Equal(t, []string{"cus_01 - english_name", "cus_01 - nationality"}, missing)

	fields.SetCustomField("cus_01", "nationality", "TW")
	missing = v.ValidateCustomSection("cus_01")
	assert.Equal(t, []string{"cus_01 - english_name"}, missing)

	// A whitespace-only value does not satisfy the requirement.
	fields.SetCustomField("cus_01", "english_name", "  ")
	missing = v.ValidateCustomSection("cus_01")
	assert.Equal(t, []string{"cus_01 - english_name"}, missing)

	fields.SetCustomField("cus_01", "english_name", "Lin Chen")
	assert.Empty(t, v.ValidateCustomSection("cus_01"))
}

func TestValidateCustomSectionNoEntryAtAll(t *testing.T) {
	schema := loadSampleSchema(t)
	v := NewValidator(schema, store.NewMemoryFieldStore())

	assert.Equal(t, []string{"contact - contact_app"}, v.ValidateCustomSection("contact"))
}

func TestValidateTrafficSectionExactSpecIndex(t *testing.T) {
	schema := loadSampleSchema(t)
	fields := store.NewMemoryFieldStore()
	v := NewValidator(schema, fields)

	fields.SetTrafficField("rentcar_01", "s_time", "08:00", 0)
	fields.SetTrafficField("rentcar_01", "e_time", "18:00", 0)
	fields.SetTrafficField("rentcar_01", "s_time", "09:30", 1)

	assert.Empty(t, v.ValidateTrafficSection([]string{"rentcar_01"}))
}

func TestValidateTrafficSectionSecondLegIncomplete(t *testing.T) {
	schema := loadSampleSchema(t)
	fields := store.NewMemoryFieldStore()
	v := NewValidator(schema, fields)

	// First rentcar leg filled completely, second leg missing its
	// required s_time.
	fields.SetTrafficField("rentcar_01", "s_time", "08:00", 0)
	fields.SetTrafficField("rentcar_01", "e_time", "18:00", 0)
	fields.SetTrafficField("rentcar_01", "e_time", "20:00", 1)

	missing := v.ValidateTrafficSection([]string{"rentcar_01"})
	assert.Equal(t, []string{"rentcar_01 - s_time"}, missing)
}

func TestValidateTrafficSectionIndexedWriteDoesNotBorrowUnindexedFields(t *testing.T) {
	schema := loadSampleSchema(t)
	fields := store.NewMemoryFieldStore()
	v := NewValidator(schema, fields)

	// The first leg's times arrive without a spec index, then a write pinned
	// to leg 1 lands. The leg-1 entry must not inherit the unindexed entry's
	// s_time: that value belongs to leg 0 by occurrence order.
	fields.SetTrafficField("rentcar_01", "s_time", "7:0", -1)
	fields.SetTrafficField("rentcar_01", "e_time", "18:00", -1)
	fields.SetTrafficField("rentcar_01", "driver", "bob", 1)

	missing := v.ValidateTrafficSection([]string{"rentcar_01"})
	assert.Equal(t, []string{"rentcar_01 - s_time"}, missing)
}

func TestResolveTrafficEntry_OccurrenceOrder(t *testing.T) {
	schema := loadSampleSchema(t)

	entries := []store.TrafficEntry{
		{TrafficType: "rentcar_01", SpecIndex: -1, Fields: map[string]store.FieldValue{"s_time": "08:00"}},
		{TrafficType: "rentcar_01", SpecIndex: -1, Fields: map[string]store.FieldValue{"s_time": "10:00"}},
	}

	first := resolveTrafficEntry(schema, entries, "rentcar_01", 0)
	require.NotNil(t, first)
	assert.Equal(t, "08:00", first.Fields["s_time"])

	second := resolveTrafficEntry(schema, entries, "rentcar_01", 1)
	require.NotNil(t, second)
	assert.Equal(t, "10:00", second.Fields["s_time"])
}

func TestResolveTrafficEntry_FirstOfTypeFallback(t *testing.T) {
	schema := loadSampleSchema(t)

	// One stored entry, stamped with a spec index that matches nothing the
	// validator asks for: both remaining tiers land on the same entry.
	entries := []store.TrafficEntry{
		{TrafficType: "rentcar_01", SpecIndex: 7, Fields: map[string]store.FieldValue{"s_time": "08:00"}},
	}

	got := resolveTrafficEntry(schema, entries, "rentcar_01", 1)
	require.NotNil(t, got)
	assert.Equal(t, "08:00", got.Fields["s_time"])

	assert.Nil(t, resolveTrafficEntry(schema, entries, "flight", 2))
}

func TestValidateBuyerSection(t *testing.T) {
	fields := store.NewMemoryFieldStore()
	v := NewValidator(nil, fields)

	missing := v.ValidateBuyerSection()
	assert.Equal(t, []string{
		"buyer - buyer_name",
		"buyer - buyer_email",
		"buyer - buyer_tel",
		"buyer - buyer_country",
	}, missing)

	fields.SetBuyerField(store.BuyerName, "Chen")
	fields.SetBuyerField(store.BuyerEmail, "chen@example.com")
	fields.SetBuyerField(store.BuyerTel, "+886912345678")
	fields.SetBuyerField(store.BuyerCountry, "TW")
	assert.Empty(t, v.ValidateBuyerSection())
}

func TestValidateGuideLangSection(t *testing.T) {
	schema := loadSampleSchema(t)
	fields := store.NewMemoryFieldStore()
	v := NewValidator(schema, fields)

	assert.Equal(t, []string{"guide_lang - guide_lang"}, v.ValidateGuideLangSection())

	fields.SetGuideLang("en")
	assert.Empty(t, v.ValidateGuideLangSection())

	// Optional or absent guide language never reports missing.
	assert.Empty(t, NewValidator(nil, fields).ValidateGuideLangSection())
}

func TestValidateSectionUnknownIDIsNoop(t *testing.T) {
	v := NewValidator(loadSampleSchema(t), store.NewMemoryFieldStore())
	assert.Empty(t, v.ValidateSection("seat_map"))
}

func TestValidateSectionNotApplicable(t *testing.T) {
	v := NewValidator(loadSampleSchema(t), store.NewMemoryFieldStore())
	// The sample schema has no voucher traffic spec.
	assert.Empty(t, v.ValidateSection("voucher"))
}

func TestSectionStates(t *testing.T) {
	schema := loadSampleSchema(t)
	fields := store.NewMemoryFieldStore()
	v := NewValidator(schema, fields)

	states := v.SectionStates()
	ids := make([]string, len(states))
	for i, s := range states {
		ids[i] = s.SectionID
	}
	assert.Equal(t, []string{"buyer", "guide_lang", "cus_01", "cus_02", "contact", "flight", "rentcar"}, ids)

	for _, s := range states {
		assert.False(t, s.Complete, "section %s should start incomplete", s.SectionID)
		assert.NotNil(t, s.Missing)
	}

	fields.SetGuideLang("en")
	for _, s := range v.SectionStates() {
		if s.SectionID == "guide_lang" {
			assert.True(t, s.Complete)
			assert.Empty(t, s.Missing)
		}
	}
}

func TestApplicableSections(t *testing.T) {
	assert.Equal(t, []string{"buyer"}, ApplicableSections(nil))
	assert.Equal(t, []string{"buyer"}, ApplicableSections(&types.FieldSchema{}))

	schema := loadSampleSchema(t)
	assert.Contains(t, ApplicableSections(schema), "rentcar")
	assert.NotContains(t, ApplicableSections(schema), "pickup")
}
