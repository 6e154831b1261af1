package docmeta

import (
	"strings"
	"testing"

	"github.com/mcyj/licensing-pipeline/internal/shard"
)

func TestLicenseNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "license hash form",
			text: "License #: CB250296641\nIssued by the department",
			want: "CB250296641",
		},
		{
			name: "license number form",
			text: "License Number: DC630012345\n",
			want: "DC630012345",
		},
		{
			name: "re line form",
			text: "Re: License #: CI020201234\n",
			want: "CI020201234",
		},
		{
			name: "first match wins",
			text: "License #: CB250296641\nLicense #: CB999999999\n",
			want: "CB250296641",
		},
		{
			name: "no license",
			text: "no identifiers in this letter",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := licenseNumber(tt.text); got != tt.want {
				t.Errorf("Expected agency id %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAgencyName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "agency name label",
			text: "Agency Name: Sunshine Learning Center\nAddress: 100 Main St",
			want: "Sunshine Learning Center",
		},
		{
			name: "facility label",
			text: "Name of Facility: Little Sprouts   Daycare\n",
			want: "Little Sprouts Daycare",
		},
		{
			name: "licensee label",
			text: "Licensee Name: Happy Kids LLC\n",
			want: "Happy Kids LLC",
		},
		{
			name: "no name falls back to placeholder",
			text: "nothing to see here",
			want: UnknownAgency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agencyName(tt.text); got != tt.want {
				t.Errorf("Expected agency name %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInspectionDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled inspection date",
			text: "Date(s) of On-site Inspection: 05/14/2024\n",
			want: "05/14/2024",
		},
		{
			name: "intake date",
			text: "Special Investigation Intake Date: 01/03/2024\n",
			want: "01/03/2024",
		},
		{
			name: "labeled field beats earlier free date",
			text: "January 2, 2024\nSpecial Investigation Intake Date: 01/03/2024\n",
			want: "01/03/2024",
		},
		{
			name: "month name form",
			text: "The visit occurred on March 5, 2024 at the facility.",
			want: "March 5, 2024",
		},
		{
			name: "numeric form",
			text: "Signed 3/5/2024 by the consultant.",
			want: "3/5/2024",
		},
		{
			name: "no date",
			text: "undated correspondence",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspectionDate(tt.text); got != tt.want {
				t.Errorf("Expected date %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "known title phrase",
			text: "STATE OF MICHIGAN\nCOMPLAINT INVESTIGATION REPORT\nLicense #: CB250296641",
			want: "Complaint Investigation Report",
		},
		{
			name: "renewal inspection report",
			text: "RENEWAL INSPECTION REPORT\n",
			want: "Renewal Inspection Report",
		},
		{
			name: "bureau header folded in",
			text: "BUREAU OF CHILDREN AND ADULT LICENSING\nSPECIAL INVESTIGATION REPORT\n",
			want: "Bureau Of Children And Adult Licensing Special Investigation Report",
		},
		{
			name: "special investigation with number",
			text: "SPECIAL INVESTIGATION REPORT\nInvestigation #: 2024C0123456\n",
			want: "Special Investigation Report #2024C0123456",
		},
		{
			name: "cover letter takes attached report title",
			text: "Dear Licensee,\nAttached is the Special Investigation Report for your facility.\nInvestigation #: 2024C0123456\n",
			want: "Special Investigation Report #2024C0123456",
		},
		{
			name: "fallback to early title line",
			text: "STATE OF MICHIGAN\nDEPARTMENT LETTERHEAD\nANNUAL INSPECTION\nLicense #: CB250296641",
			want: "Annual Inspection",
		},
		{
			name: "mixed case title kept as written",
			text: "Corrective Action Plan\nsubmitted by the licensee",
			want: "Corrective Action Plan",
		},
		{
			name: "no title",
			text: "a letter about scheduling",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documentTitle(tt.text); got != tt.want {
				t.Errorf("Expected title %q, got %q", tt.want, got)
			}
		})
	}
}

func TestIsSpecialInvestigation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "report header",
			text: "SPECIAL INVESTIGATION REPORT\n",
			want: true,
		},
		{
			name: "cover letter",
			text: "Attached is the Special Investigation Report for your facility.",
			want: true,
		},
		{
			name: "investigation number only",
			text: "Investigation #: 2024C0123456\n",
			want: true,
		},
		{
			name: "other report type",
			text: "RENEWAL INSPECTION REPORT\n",
			want: false,
		},
		{
			name: "marker beyond the header window",
			text: strings.Repeat("x", 3100) + "\nSPECIAL INVESTIGATION REPORT\n",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSpecialInvestigation(tt.text); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtractEmptyText(t *testing.T) {
	doc := Extract("")

	if doc.AgencyID != "" || doc.Date != "" || doc.DocumentTitle != "" {
		t.Errorf("Expected empty fields for empty text, got %+v", doc)
	}
	if doc.AgencyName != UnknownAgency {
		t.Errorf("Expected agency name placeholder %q, got %q", UnknownAgency, doc.AgencyName)
	}
	if doc.IsSpecialInvestigation {
		t.Error("Expected special investigation flag to be false for empty text")
	}
}

func TestFromRecord(t *testing.T) {
	rec := shard.Record{
		SHA256:        strings.Repeat("a", 64),
		DateProcessed: "2024-03-01T10:30:00Z",
		Text: []string{
			"RENEWAL INSPECTION REPORT",
			"License #: CB250296641\nAgency Name: Sunshine Learning Center\nDate(s) of On-site Inspection: 05/14/2024",
		},
	}

	doc := FromRecord(rec)

	if doc.DocumentTitle != "Renewal Inspection Report" {
		t.Errorf("Expected title 'Renewal Inspection Report', got %q", doc.DocumentTitle)
	}
	if doc.AgencyID != "CB250296641" {
		t.Errorf("Expected agency id 'CB250296641', got %q", doc.AgencyID)
	}
	if doc.AgencyName != "Sunshine Learning Center" {
		t.Errorf("Expected agency name 'Sunshine Learning Center', got %q", doc.AgencyName)
	}
	if doc.Date != "05/14/2024" {
		t.Errorf("Expected date '05/14/2024', got %q", doc.Date)
	}
	if doc.SHA256 != rec.SHA256 {
		t.Errorf("Expected sha256 %q, got %q", rec.SHA256, doc.SHA256)
	}
	if doc.DateProcessed != rec.DateProcessed {
		t.Errorf("Expected date processed %q, got %q", rec.DateProcessed, doc.DateProcessed)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SPECIAL INVESTIGATION REPORT", "Special Investigation Report"},
		{"ON-SITE INSPECTION REPORT", "On-Site Inspection Report"},
		{"REPORT", "Report"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsAllUpper(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"RENEWAL REPORT", true},
		{"Renewal Report", false},
		{"REPORT #2024", true},
		{"2024", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isAllUpper(tt.in); got != tt.want {
			t.Errorf("isAllUpper(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
