package components

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"voiceverse-signup/internal/viewport"
)

type navLink struct {
	Label string
	Href  string
}

var navLinks = []navLink{
	{"Home", "#home"},
	{"Newsletter", "#newsletter"},
	{"Contact", "#contact"},
}

func Navbar() g.Node {
	return Nav(
		ID("navbar"),
		Class("fixed top-0 w-full z-40"),
		threshold(viewport.NavbarSolid),
		A(Href("#home"), Class("font-display font-bold text-2xl"), g.Text("VoiceVerse")),
		Ul(
			Class("hidden md:flex space-x-8"),
			g.Map(navLinks, func(l navLink) g.Node {
				return Li(A(Href(l.Href), g.Text(l.Label)))
			}),
		),
		joinWaitlistButton("btn btn-primary", "Join Waitlist"),
	)
}

func Hero() g.Node {
	return Section(
		ID("home"),
		Class("relative min-h-screen flex items-center justify-center"),
		Div(
			Class("text-center"),
			H1(
				Class("text-5xl md:text-7xl font-display font-bold"),
				g.Text("Speak Your World "),
				Span(Class("bg-gradient-to-r from-voice-purple to-voice-cyan bg-clip-text text-transparent"), g.Text("Into Existence")),
			),
			P(Class("mt-6 text-xl text-gray-300"), g.Text("VoiceVerse is the first universe you build, explore and play with nothing but your voice.")),
			Div(
				Class("mt-8 flex justify-center gap-4"),
				joinWaitlistButton("btn btn-primary", "Join the Waitlist"),
				A(Href("#newsletter"), Class("btn btn-ghost"), g.Text("Get Updates")),
			),
		),
	)
}

// joinWaitlistButton posts to the endpoint that opens the waitlist form
func joinWaitlistButton(class, label string) g.Node {
	return Form(
		Method("post"), Action("/waitlist/open"), Class("inline"),
		Button(Type("submit"), Class(class), g.Text(label)),
	)
}

type ctaOption struct {
	Label string
	Href  string
}

func FloatingCTA() g.Node {
	return Div(
		ID("floating-cta"),
		Class("fixed bottom-6 right-6 z-40"),
		threshold(viewport.FloatingCTA),
		joinWaitlistButton("btn btn-circle btn-primary", "Join Waitlist"),
		g.Map([]ctaOption{
			{"Contact Us", "#contact"},
			{"Get Updates", "#newsletter"},
		}, func(o ctaOption) g.Node {
			return A(Href(o.Href), Class("btn btn-sm"), g.Text(o.Label))
		}),
	)
}

func PageFooter() g.Node {
	return Footer(
		Class("border-t border-voice-purple/20 py-12"),
		Div(
			Class("container grid md:grid-cols-2 gap-8"),
			Div(
				P(Class("font-display font-bold text-xl"), g.Text("VoiceVerse")),
				P(Class("text-gray-400"), g.Text("hello@voiceverse.io")),
			),
			Div(
				H3(Class("font-semibold mb-2"), g.Text("Stay in the loop")),
				A(Href("#newsletter"), g.Text("Subscribe to the newsletter")),
			),
		),
		P(Class("mt-8 text-center text-sm text-gray-500"), g.Text("© VoiceVerse. All rights reserved.")),
	)
}
