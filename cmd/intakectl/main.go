// Command intakectl submits quick intakes and referrals to a running intake
// service through the same form logic the site uses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intake_backend/pkg/client"
	"intake_backend/pkg/logger"
)

var (
	baseURL string
	pageURL string
	timeout time.Duration
	verbose bool

	quick    quickFlags
	referral referralFlags
)

type quickFlags struct {
	fullName string
	contact  string
	state    string
	dealType string
	amount   string
	timeline string
	consent  bool
}

type referralFlags struct {
	yourName       string
	yourEmail      string
	yourPhone      string
	leadName       string
	leadContact    string
	dealType       string
	state          string
	amount         string
	notes          string
	agreed         bool
	notCompensated bool
}

var rootCmd = &cobra.Command{
	Use:          "intakectl",
	Short:        "Submit leads to the intake service",
	SilenceUsage: true,
}

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Submit a quick deal intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		form := client.NewQuickIntakeForm(client.New(baseURL), client.WithAnalytics(client.NewZapAnalytics(log)))
		if err := form.Mount(pageURL, nil); err != nil {
			return fmt.Errorf("invalid --page-url: %w", err)
		}
		defer form.Unmount()

		form.SetFullName(quick.fullName)
		form.SetBestContact(quick.contact)
		form.SetPropertyState(quick.state)
		form.SetDealType(quick.dealType)
		form.SetEstimatedLoanAmount(quick.amount)
		form.SetTimelineToClose(quick.timeline)
		form.SetConsent(quick.consent)

		if hint := form.ContactHint(); hint != "" {
			log.Debug("contact recognized", zap.String("type", string(hint)))
		}

		ctx, cancel := submitContext(cmd)
		defer cancel()
		return report(cmd, form.Submit(ctx))
	},
}

var referCmd = &cobra.Command{
	Use:   "refer",
	Short: "Refer a deal",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := client.NewReferralForm(client.New(baseURL))

		form.SetYourName(referral.yourName)
		form.SetYourEmail(referral.yourEmail)
		form.SetYourPhone(referral.yourPhone)
		form.SetLeadName(referral.leadName)
		form.SetLeadContact(referral.leadContact)
		form.SetDealType(referral.dealType)
		form.SetPropertyState(referral.state)
		form.SetLoanAmount(referral.amount)
		form.SetNotes(referral.notes)
		form.SetAgreedToTerms(referral.agreed)
		form.SetNotCompensated(referral.notCompensated)

		ctx, cancel := submitContext(cmd)
		defer cancel()
		return report(cmd, form.Submit(ctx))
	},
}

// submitContext applies --timeout only when it is set; by default a
// submission waits as long as the service takes.
func submitContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(cmd.Context(), timeout)
	}
	return context.WithCancel(cmd.Context())
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return logger.New("development")
	}
	return logger.New("production")
}

func report(cmd *cobra.Command, res client.Result) error {
	out := cmd.OutOrStdout()
	switch res.Outcome {
	case client.Submitted:
		fmt.Fprintln(out, res.Message)
		if res.ReferralID != "" {
			fmt.Fprintf(out, "referral id: %s\n", res.ReferralID)
		}
		return nil
	case client.Blocked:
		for field, msg := range res.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
		}
		return fmt.Errorf("submission blocked by %d field error(s)", len(res.Fields))
	case client.Failed:
		if verbose && res.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Err)
		}
		return fmt.Errorf("%s", res.Message)
	default:
		return fmt.Errorf("submission %s: %s", res.Outcome, res.Message)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:3000", "Intake service base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout, 0 waits indefinitely")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	quickCmd.Flags().StringVar(&pageURL, "page-url", "https://localhost/", "Landing page URL, utm_* parameters are attached")
	quickCmd.Flags().StringVar(&quick.fullName, "name", "", "Full name")
	quickCmd.Flags().StringVar(&quick.contact, "contact", "", "Email or phone")
	quickCmd.Flags().StringVar(&quick.state, "state", "", "Property state, e.g. Texas")
	quickCmd.Flags().StringVar(&quick.dealType, "deal-type", "", "Fix & Flip, DSCR Rental, New Construction, Commercial Bridge or Other")
	quickCmd.Flags().StringVar(&quick.amount, "amount", "", "Estimated loan amount")
	quickCmd.Flags().StringVar(&quick.timeline, "timeline", "ASAP", "Timeline to close")
	quickCmd.Flags().BoolVar(&quick.consent, "consent", false, "Consent to be contacted")

	referCmd.Flags().StringVar(&referral.yourName, "your-name", "", "Your name")
	referCmd.Flags().StringVar(&referral.yourEmail, "your-email", "", "Your email")
	referCmd.Flags().StringVar(&referral.yourPhone, "your-phone", "", "Your phone")
	referCmd.Flags().StringVar(&referral.leadName, "lead-name", "", "Lead name")
	referCmd.Flags().StringVar(&referral.leadContact, "lead-contact", "", "Lead email or phone")
	referCmd.Flags().StringVar(&referral.dealType, "deal-type", "", "Deal type code")
	referCmd.Flags().StringVar(&referral.state, "state", "", "Property state")
	referCmd.Flags().StringVar(&referral.amount, "amount", "", "Loan amount")
	referCmd.Flags().StringVar(&referral.notes, "notes", "", "Notes, 240 characters max")
	referCmd.Flags().BoolVar(&referral.agreed, "agree-terms", false, "Agree to the referral terms")
	referCmd.Flags().BoolVar(&referral.notCompensated, "not-compensated", false, "Confirm you are not compensated by the lead")

	rootCmd.AddCommand(quickCmd, referCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
