package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/profile"
)

var profileSet struct {
	name, age, gender          string
	conditions, medications    string
	allergies                  string
	emergencyContact, provider string
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your user profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update only the fields given. Lists are comma-separated.

Examples:
  gastroguard profile set --name Sam --conditions gerd,ibs
  gastroguard profile set --allergies "penicillin, peanuts"`,
	Args: cobra.NoArgs,
	RunE: runProfileSet,
}

var profileClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase every profile field",
	Args:  cobra.NoArgs,
	RunE:  runProfileClear,
}

func init() {
	f := profileSetCmd.Flags()
	f.StringVar(&profileSet.name, "name", "", "your name")
	f.StringVar(&profileSet.age, "age", "", "your age")
	f.StringVar(&profileSet.gender, "gender", "", "your gender")
	f.StringVar(&profileSet.conditions, "conditions", "", "known GI conditions (condition keys)")
	f.StringVar(&profileSet.medications, "medications", "", "current medications")
	f.StringVar(&profileSet.allergies, "allergies", "", "allergies")
	f.StringVar(&profileSet.emergencyContact, "emergency-contact", "", "emergency contact")
	f.StringVar(&profileSet.provider, "provider", "", "healthcare provider")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd, profileClearCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	p, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		return err
	}
	return printProfile(cmd.OutOrStdout(), p.Get())
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	p, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		return err
	}

	conditions := profile.SplitList(profileSet.conditions)
	for i, c := range conditions {
		c = strings.ToLower(c)
		if _, ok := model.Conditions[c]; !ok {
			return fmt.Errorf("unknown condition %q (see `gastroguard scales`)", c)
		}
		conditions[i] = c
	}

	changed := cmd.Flags().Changed
	p.Update(func(pr *model.Profile) {
		if changed("name") {
			pr.Name = profileSet.name
		}
		if changed("age") {
			pr.Age = profileSet.age
		}
		if changed("gender") {
			pr.Gender = profileSet.gender
		}
		if changed("conditions") {
			pr.KnownConditions = conditions
		}
		if changed("medications") {
			pr.CurrentMedications = profile.SplitList(profileSet.medications)
		}
		if changed("allergies") {
			pr.Allergies = profile.SplitList(profileSet.allergies)
		}
		if changed("emergency-contact") {
			pr.EmergencyContact = profileSet.emergencyContact
		}
		if changed("provider") {
			pr.HealthcareProvider = profileSet.provider
		}
	})
	if err := p.Save(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return printProfile(cmd.OutOrStdout(), p.Get())
}

func runProfileClear(cmd *cobra.Command, _ []string) error {
	p, err := profile.Load(cfg.Profile.Path)
	if err != nil {
		return err
	}
	p.Clear()
	if err := p.Save(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Profile cleared.")
	return nil
}

func printProfile(w io.Writer, p model.Profile) error {
	if strings.EqualFold(outputFmt, "json") {
		return json.NewEncoder(w).Encode(p)
	}

	conditions := make([]string, len(p.KnownConditions))
	for i, k := range p.KnownConditions {
		conditions[i] = model.ConditionName(k)
	}
	rows := [][2]string{
		{"Name", p.Name},
		{"Age", p.Age},
		{"Gender", p.Gender},
		{"Known conditions", strings.Join(conditions, ", ")},
		{"Medications", strings.Join(p.CurrentMedications, ", ")},
		{"Allergies", strings.Join(p.Allergies, ", ")},
		{"Emergency contact", p.EmergencyContact},
		{"Healthcare provider", p.HealthcareProvider},
		{"Created", p.Created},
		{"Last updated", p.LastUpdated},
	}
	for _, r := range rows {
		v := r[1]
		if v == "" {
			v = "-"
		}
		if _, err := fmt.Fprintf(w, "%-20s %s\n", r[0], v); err != nil {
			return err
		}
	}
	return nil
}
