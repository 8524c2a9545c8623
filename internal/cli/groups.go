package cli

import (
	"encoding/json"

	"github.com/olekukonko/tablewriter"
	"github.com/vburojevic/jittail/internal/domain"
)

// GroupsCmd lists the log groups the backend can tail
type GroupsCmd struct{}

// GroupOutput describes one tailable group
type GroupOutput struct {
	Type     string `json:"type"` // Always "group"
	Key      string `json:"key"`
	Label    string `json:"label"`
	Name     string `json:"name"`
	Workflow bool   `json:"workflow"`
}

// Run executes the groups command
func (c *GroupsCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		encoder := json.NewEncoder(globals.Stdout)
		for _, g := range domain.Groups {
			if err := encoder.Encode(GroupOutput{
				Type:     "group",
				Key:      g.Key(),
				Label:    g.Label(),
				Name:     g.String(),
				Workflow: g.IsWorkflow(),
			}); err != nil {
				return err
			}
		}
		return nil
	}

	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("Key", "Label", "Name", "Kind")
	for _, g := range domain.Groups {
		kind := "plain"
		if g.IsWorkflow() {
			kind = "workflow"
		}
		if err := table.Append([]string{g.Key(), g.Label(), g.String(), kind}); err != nil {
			return err
		}
	}
	return table.Render()
}
