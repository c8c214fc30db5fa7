package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rosa/internal/cli/output"
	"github.com/leapstack-labs/rosa/internal/intent"
)

// RuleInfo is the printable form of an extraction rule.
type RuleInfo struct {
	Position    int      `json:"position" yaml:"position"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
}

// RulesOutput is the JSON/YAML output for rules listing.
type RulesOutput struct {
	Rules []RuleInfo `json:"rules" yaml:"rules"`
	Count int        `json:"count" yaml:"count"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules [name]",
		Short: "List the intent extraction rules",
		Long: `List the keyword rules used to turn a question into a filter.

Rules run in the order shown; an earlier rule never sees the effect of a later one.`,
		Example: `  # List all rules
  rosa rules

  # Show the keywords of a single rule
  rosa rules speed

  # Output as JSON
  rosa rules -o json`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var names []string
			for _, r := range intent.Rules() {
				names = append(names, r.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContextWithoutData(cmd).Renderer
			infos := ruleInfos()
			if len(args) > 0 {
				for _, info := range infos {
					if info.Name == args[0] {
						return showRule(r, info)
					}
				}
				return fmt.Errorf("rule %q not found", args[0])
			}
			return listRules(r, infos)
		},
	}
}

func ruleInfos() []RuleInfo {
	rules := intent.Rules()
	infos := make([]RuleInfo, len(rules))
	for i, rule := range rules {
		infos[i] = RuleInfo{
			Position:    i + 1,
			Name:        rule.Name,
			Description: rule.Description,
			Keywords:    rule.Keywords,
		}
	}
	return infos
}

func listRules(r *output.Renderer, infos []RuleInfo) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesOutput{Rules: infos, Count: len(infos)})
	case output.ModeYAML:
		return r.YAML(RulesOutput{Rules: infos, Count: len(infos)})
	}

	r.Header(1, fmt.Sprintf("Intent Rules (%d)", len(infos)))
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{strconv.Itoa(info.Position), info.Name, info.Description}
	}
	r.Table([]string{"#", "Name", "Description"}, rows)
	r.Muted("Use 'rosa rules <name>' to see the keywords of a rule")
	return nil
}

func showRule(r *output.Renderer, info RuleInfo) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeYAML:
		return r.YAML(info)
	}

	r.Header(1, fmt.Sprintf("%d. %s", info.Position, info.Name))
	r.Println(info.Description)
	r.Println("")
	r.KeyValue("Keywords", strings.Join(info.Keywords, ", "))
	return nil
}
