package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/test"

	"github.com/ByLCY/pagefit/layout"
)

func TestCollectProposalsReportsUnresolved(t *testing.T) {
	profile := &layout.Profile{Edits: []layout.EditProposal{
		{ElementID: "0_0", ProposedText: "Total ${invoice.total}"},
		{ElementID: "0_1", ProposedText: "Due ${invoice.due}"},
	}}
	cfg := config{data: `{"invoice": {"total": 12}}`}

	got, missing, err := collectProposals(profile, cfg)
	test.Error(t, err)
	test.String(t, got[0].ProposedText, "Total 12")
	test.String(t, got[1].ProposedText, "Due ${invoice.due}")
	test.T(t, missing, []string{"invoice.due"})

	cfg.strict = true
	_, missing, err = collectProposals(profile, cfg)
	test.That(t, err != nil, "strict mode must reject unresolved placeholders")
	test.T(t, missing, []string{"invoice.due"})
}

func TestCollectProposalsEditsFileComesLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.json")
	err := os.WriteFile(path, []byte(`[{"elementId": "0_0", "proposedText": "from file"}]`), 0o644)
	test.Error(t, err)

	profile := &layout.Profile{Edits: []layout.EditProposal{{ElementID: "0_0", ProposedText: "from profile"}}}
	got, missing, err := collectProposals(profile, config{editsPath: path})
	test.Error(t, err)
	test.T(t, len(missing), 0)
	test.T(t, len(got), 2)
	test.String(t, got[1].ProposedText, "from file")
}
