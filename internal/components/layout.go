package components

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"voiceverse-signup/internal/viewport"
)

type PageConfig struct {
	Title       string
	Description string
}

func Layout(config PageConfig, content ...g.Node) g.Node {
	if config.Title == "" {
		config.Title = "VoiceVerse - The Voice-Powered Universe"
	}

	if config.Description == "" {
		config.Description = "Be among the first to experience the future of voice-powered digital interaction."
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(config.Title)),
				Meta(Name("description"), Content(config.Description)),
				Meta(g.Attr("property", "og:title"), Content(config.Title)),
				Meta(g.Attr("property", "og:description"), Content(config.Description)),
				Meta(g.Attr("property", "og:type"), Content("website")),
			),
			Body(
				Class("bg-voice-dark text-white"),
				g.Group(content),
				Script(g.Raw(scrollScript)),
			),
		),
	})
}

// scrollScript toggles data-visible on every element carrying a
// data-scroll-threshold attribute
const scrollScript = `
(function () {
  var els = document.querySelectorAll("[data-scroll-threshold]");
  function update() {
    els.forEach(function (el) {
      var t = parseFloat(el.getAttribute("data-scroll-threshold"));
      el.setAttribute("data-visible", window.scrollY > t ? "true" : "false");
    });
  }
  window.addEventListener("scroll", update);
  update();
})();
`

// threshold marks an element for the scroll script. Pages render at the top,
// so the initial visibility is the one for a zero offset.
func threshold(t viewport.Threshold) g.Node {
	return g.Group([]g.Node{
		Data("scroll-threshold", fmt.Sprintf("%g", float64(t))),
		Data("visible", fmt.Sprintf("%t", t.Visible(0))),
	})
}
