package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"voiceverse-signup/internal/models"
)

type contactInfo struct {
	Title       string
	Description string
	Contact     string
}

var contactInfos = []contactInfo{
	{"Email Us", "Get in touch with our team", "hello@voiceverse.io"},
	{"Call Us", "Speak directly with our team", "+1 (555) 123-4567"},
	{"Visit Us", "Our headquarters", "San Francisco, CA"},
}

func ContactSection(state PageState) g.Node {
	in := state.ContactInput
	loading := state.Contact.Kind == models.StatusLoading
	errs := state.ContactErrors

	return Section(
		ID("contact"),
		Class("py-20 bg-gradient-to-b from-voice-gray to-voice-dark"),
		H2(Class("text-4xl lg:text-6xl font-display font-bold text-center"), g.Text("Get in Touch")),
		P(Class("text-xl text-gray-300 text-center"), g.Text("Have questions about VoiceVerse? Want to partner with us? We'd love to hear from you.")),
		Div(
			Class("grid lg:grid-cols-2 gap-16 items-start"),
			Div(
				H3(Class("text-3xl font-display font-bold mb-6"), g.Text("Let's Start a Conversation")),
				Ul(
					Class("space-y-6"),
					g.Map(contactInfos, func(c contactInfo) g.Node {
						return Li(
							H4(Class("font-semibold"), g.Text(c.Title)),
							P(Class("text-gray-400 text-sm"), g.Text(c.Description)),
							P(Class("text-voice-cyan font-semibold"), g.Text(c.Contact)),
						)
					}),
				),
			),
			Form(
				Method("post"), Action("/contact"), Class("space-y-6"),
				H3(Class("text-3xl font-display font-bold mb-6"), g.Text("Send Us a Message")),
				contactField("name", "Name *", Input(Type("text"), ID("contact-name"), Name("name"), Value(in.Name), Placeholder("Your name"), Required()), errs),
				contactField("email", "Email *", Input(Type("email"), ID("contact-email"), Name("email"), Value(in.Email), Placeholder("your@email.com"), Required()), errs),
				contactField("subject", "Subject *", Input(Type("text"), ID("contact-subject"), Name("subject"), Value(in.Subject), Placeholder("What's this about?"), Required()), errs),
				contactField("message", "Message *", Textarea(ID("contact-message"), Name("message"), Rows("6"), Placeholder("Tell us more about your inquiry..."), Required(), g.Text(in.Message)), errs),
				statusMessage(state.Contact),
				Button(
					Type("submit"), Class("btn btn-primary w-full"),
					g.If(loading || state.Contact.Kind == models.StatusSuccess, Disabled()),
					g.If(loading, g.Text("Sending...")),
					g.If(!loading, g.Text("Send Message")),
				),
			),
		),
	)
}

// contactField labels input, whose id is the field name prefixed with
// "contact-" so it never clashes with the waitlist form
func contactField(name, label string, input g.Node, errs map[string]string) g.Node {
	return Div(
		Label(For("contact-"+name), Class("block text-sm font-semibold text-gray-300 mb-2"), g.Text(label)),
		input,
		fieldError(errs, name),
	)
}
