package components

import (
	"slices"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"voiceverse-signup/internal/models"
)

// PageState is what the landing page shows for one view
type PageState struct {
	Newsletter       models.Status
	NewsletterEmail  string
	NewsletterErrors map[string]string

	Waitlist       models.Status
	WaitlistInput  models.WaitlistInput
	WaitlistOpen   bool
	WaitlistErrors map[string]string

	Contact       models.Status
	ContactInput  models.ContactInput
	ContactErrors map[string]string
}

func LandingPage(state PageState) g.Node {
	return Layout(
		PageConfig{},
		Navbar(),
		Hero(),
		NewsletterSection(state),
		ContactSection(state),
		g.If(state.WaitlistOpen, WaitlistModal(state)),
		FloatingCTA(),
		PageFooter(),
	)
}

func NewsletterSection(state PageState) g.Node {
	loading := state.Newsletter.Kind == models.StatusLoading
	return Section(
		ID("newsletter"),
		Class("py-20"),
		H2(Class("text-4xl font-display font-bold text-center"), g.Text("Get VoiceVerse Updates")),
		Form(
			Method("post"), Action("/newsletter"), Class("space-y-4"),
			Div(
				Class("flex gap-3"),
				Input(
					Type("email"), Name("email"), Value(state.NewsletterEmail),
					Placeholder("Enter your email address"), Required(),
					g.If(loading, Disabled()),
				),
				Button(
					Type("submit"), Class("btn btn-primary"),
					g.If(loading || state.Newsletter.Kind == models.StatusSuccess, Disabled()),
					g.If(loading, g.Text("Subscribing...")),
					g.If(!loading, g.Text("Subscribe")),
				),
			),
			fieldError(state.NewsletterErrors, "email"),
			statusMessage(state.Newsletter),
			P(Class("text-xs text-gray-400"), g.Text("We respect your privacy. Unsubscribe at any time. No spam, ever.")),
		),
	)
}

var benefits = []string{
	"🚀 Early Alpha Access",
	"🎁 Exclusive NFT Drops",
	"💎 Founder Benefits",
	"👥 VIP Community Access",
}

func WaitlistModal(state PageState) g.Node {
	in := state.WaitlistInput
	busy := state.Waitlist.Kind == models.StatusLoading || state.Waitlist.Kind == models.StatusSuccess

	return Div(
		ID("waitlist"),
		Class("fixed inset-0 z-50 flex items-center justify-center p-4"),
		g.Attr("role", "dialog"),
		Div(
			Class("relative bg-voice-dark border border-voice-purple/30 rounded-2xl max-w-2xl w-full"),
			Form(
				Method("post"), Action("/waitlist/close"), Class("absolute top-4 right-4"),
				Button(Type("submit"), g.Attr("aria-label", "Close"), g.Text("×")),
			),
			H2(Class("text-3xl font-display font-bold"), g.Text("Join the VoiceVerse Waitlist")),
			P(Class("text-gray-300"), g.Text("Be among the first to experience the future of voice-powered digital interaction. Waitlist members get exclusive early access and special perks.")),
			Ul(
				Class("grid grid-cols-2 gap-4"),
				g.Map(benefits, func(b string) g.Node { return Li(g.Text(b)) }),
			),
			Form(
				Method("post"), Action("/waitlist"), Class("space-y-6"),
				textField("firstName", "First Name *", in.FirstName, "John", true, state.WaitlistErrors),
				textField("lastName", "Last Name *", in.LastName, "Doe", true, state.WaitlistErrors),
				emailField(in.Email, state.WaitlistErrors),
				selectField("role", "Role/Profession *", "Select your role", models.Roles, in.Role, true, state.WaitlistErrors),
				textField("company", "Company (Optional)", in.Company, "Your company", false, state.WaitlistErrors),
				FieldSet(
					Legend(g.Text("What interests you most? (Select all that apply)")),
					g.Map(interestOptions(in), func(interest string) g.Node {
						return Label(
							Class("block"),
							Input(Type("checkbox"), Name("interests"), Value(interest), g.If(in.HasInterest(interest), Checked())),
							g.Text(" "+interest),
						)
					}),
				),
				selectField("referralSource", "How did you hear about us?", "Select an option", models.ReferralSources, in.ReferralSource, false, state.WaitlistErrors),
				Label(
					Input(Type("checkbox"), Name("newsletter"), g.If(in.Newsletter, Checked())),
					g.Text(" Subscribe to our newsletter for updates and exclusive content"),
				),
				statusMessage(state.Waitlist),
				Button(
					Type("submit"), Class("btn btn-primary w-full"),
					g.If(busy, Disabled()),
					g.If(state.Waitlist.Kind == models.StatusLoading, g.Text("Joining Waitlist...")),
					g.If(state.Waitlist.Kind != models.StatusLoading, g.Text("Join the Waitlist")),
				),
			),
		),
	)
}

// interestOptions lists the displayed interests followed by any custom
// selection that is not one of them
func interestOptions(in models.WaitlistInput) []string {
	out := append([]string{}, models.Interests...)
	for _, interest := range in.Interests {
		if !slices.Contains(out, interest) {
			out = append(out, interest)
		}
	}
	return out
}

func textField(name, label, value, placeholder string, required bool, errs map[string]string) g.Node {
	return Div(
		Label(For(name), Class("block text-sm font-semibold text-voice-cyan mb-2"), g.Text(label)),
		Input(Type("text"), ID(name), Name(name), Value(value), Placeholder(placeholder), g.If(required, Required())),
		fieldError(errs, name),
	)
}

func emailField(value string, errs map[string]string) g.Node {
	return Div(
		Label(For("email"), Class("block text-sm font-semibold text-voice-cyan mb-2"), g.Text("Email Address *")),
		Input(Type("email"), ID("email"), Name("email"), Value(value), Placeholder("john@example.com"), Required()),
		fieldError(errs, "email"),
	)
}

func selectField(name, label, prompt string, options []string, selected string, required bool, errs map[string]string) g.Node {
	return Div(
		Label(For(name), Class("block text-sm font-semibold text-voice-cyan mb-2"), g.Text(label)),
		Select(
			ID(name), Name(name), g.If(required, Required()),
			Option(Value(""), g.Text(prompt)),
			g.Map(options, func(o string) g.Node {
				return Option(Value(o), g.If(o == selected, Selected()), g.Text(o))
			}),
		),
		fieldError(errs, name),
	)
}

func fieldError(errs map[string]string, name string) g.Node {
	msg, ok := errs[name]
	if !ok {
		return nil
	}
	return P(Class("text-sm text-red-400 field-error"), Data("field", name), g.Text(msg))
}

func statusMessage(s models.Status) g.Node {
	if s.Message == "" {
		return nil
	}
	class := "text-voice-purple"
	switch s.Kind {
	case models.StatusSuccess:
		class = "text-green-400"
	case models.StatusError:
		class = "text-red-400"
	}
	return Div(
		Class("status "+class),
		Data("status", string(s.Kind)),
		g.Attr("role", "status"),
		g.Text(s.Message),
	)
}
