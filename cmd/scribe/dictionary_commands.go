package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sessionscribe/internal/correct"
	"sessionscribe/internal/dictionary"
)

func newDictionaryCommand(ctx *commandContext) *cobra.Command {
	dictionaryCmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Maintain the campaign's correction dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	dictionaryCmd.AddCommand(newDictionaryProposeCommand(ctx))
	dictionaryCmd.AddCommand(newDictionaryAutofixCommand(ctx))

	return dictionaryCmd
}

func newDictionaryProposeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "propose [transcript...]",
		Short: "Scan transcripts for unknown terms and propose corrections",
		Long: "Scans the given transcripts (default: every corrected transcript in the\n" +
			"campaign) for terms that match no dictionary entry. Confident fuzzy matches\n" +
			"become correction rules; the rest are appended as unresolved entries for\n" +
			"manual review.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				paths := args
				if len(paths) == 0 {
					records, err := env.store.List(cmd.Context())
					if err != nil {
						return err
					}
					for _, rec := range records {
						if rec.TranscriptionFile != "" {
							paths = append(paths, env.camp.Abs(rec.TranscriptionFile))
						}
					}
				}
				if len(paths) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No transcripts to scan")
					return nil
				}

				var builder strings.Builder
				var sources []string
				for _, path := range paths {
					content, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read transcript: %w", err)
					}
					builder.Write(content)
					builder.WriteString("\n")
					sources = append(sources, filepath.Base(path))
				}

				proposal := correct.Analyze(env.dict, env.lexicon, builder.String(),
					env.cfg.Dictionaries.CorrectionThreshold)

				rules := append([]dictionary.Rule{}, proposal.AutoRules...)
				for _, candidate := range proposal.Candidates {
					rules = append(rules, dictionary.Rule{From: candidate})
				}
				if len(rules) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No unknown terms found")
					return nil
				}
				if err := env.dict.AppendRules(rules, strings.Join(sources, ", ")); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Scanned %d transcript(s): %d auto-resolved rule(s), %d candidate(s) for review\n",
					len(paths), len(proposal.AutoRules), len(proposal.Candidates))
				fmt.Fprintf(cmd.OutOrStdout(), "Review %s\n", env.camp.CorrectionsPath())
				return nil
			})
		},
	}
}

func newDictionaryAutofixCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "autofix",
		Short: "Fill unresolved correction entries from close word-list matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCampaign(true, func(env *campaignEnv) error {
				resolved, err := correct.ResolveEmptyRules(env.dict,
					env.cfg.Dictionaries.CorrectionThreshold)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d correction(s)\n", resolved)
				return nil
			})
		},
	}
}
