package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleInterestTwiceRestoresSelection(t *testing.T) {
	for _, interest := range Interests {
		t.Run(interest, func(t *testing.T) {
			in := NewWaitlistInput()
			in.SetInterests([]string{"Partnership", "Voice Technology"})
			before := in.Clone()

			in.ToggleInterest(interest)
			in.ToggleInterest(interest)

			assert.ElementsMatch(t, before.Interests, in.Interests)
		})
	}
}

func TestToggleInterestOutsideDisplayedOptions(t *testing.T) {
	in := NewWaitlistInput()

	in.ToggleInterest("Karaoke")
	require.True(t, in.HasInterest("Karaoke"))
	assert.Equal(t, []string{"Karaoke"}, in.Interests)

	in.ToggleInterest("Karaoke")
	assert.False(t, in.HasInterest("Karaoke"))
	assert.Empty(t, in.Interests)
}

func TestSetInterestsDropsDuplicates(t *testing.T) {
	in := NewWaitlistInput()
	in.SetInterests([]string{"Partnership", "Blockchain/NFTs", "Partnership"})

	assert.Equal(t, []string{"Partnership", "Blockchain/NFTs"}, in.Interests)
}

func TestNewWaitlistInputDefaults(t *testing.T) {
	in := NewWaitlistInput()

	assert.True(t, in.Newsletter)
	assert.NotNil(t, in.Interests)
	assert.Empty(t, in.Interests)
}

func TestCloneDoesNotShareInterests(t *testing.T) {
	in := NewWaitlistInput()
	in.ToggleInterest("Partnership")

	cp := in.Clone()
	cp.ToggleInterest("Student Life")

	assert.Equal(t, []string{"Partnership"}, in.Interests)
	assert.Equal(t, []string{"Partnership", "Student Life"}, cp.Interests)
}

func TestWaitlistSignup(t *testing.T) {
	in := NewWaitlistInput()
	in.FirstName = "Ada"
	in.LastName = "Lovelace"
	in.Email = "ada@example.com"
	in.Role = "Developer"
	in.ToggleInterest("Voice Technology")

	s := in.Signup()

	assert.Equal(t, KindWaitlist, s.Kind)
	assert.Equal(t, "Ada Lovelace", s.Name())
	assert.Equal(t, []string{"Voice Technology"}, s.Interests)
	assert.True(t, s.Newsletter)
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, Idle().AcceptsSubmit())
	assert.True(t, Error("x").AcceptsSubmit())
	assert.False(t, Loading("x").AcceptsSubmit())
	assert.False(t, Success("x").AcceptsSubmit())

	assert.True(t, Success("x").Terminal())
	assert.True(t, Error("x").Terminal())
	assert.False(t, Loading("x").Terminal())
	assert.Empty(t, Idle().Message)
}

func TestEnumerations(t *testing.T) {
	assert.True(t, IsRole("Content Creator"))
	assert.False(t, IsRole("Astronaut"))
	assert.True(t, IsReferralSource("Search Engine"))
	assert.False(t, IsReferralSource(""))
}

func TestWaitlistSetField(t *testing.T) {
	in := NewWaitlistInput()
	require.NoError(t, in.SetField("firstName", "  Ada "))
	require.NoError(t, in.SetField("referralSource", "Search Engine"))

	assert.Equal(t, "Ada", in.FirstName)
	assert.Equal(t, "Search Engine", in.ReferralSource)
	assert.Error(t, in.SetField("favouriteColour", "blue"))

	require.NoError(t, in.SetField("newsletter", ""))
	assert.False(t, in.Newsletter)
	require.NoError(t, in.SetField("newsletter", "on"))
	assert.True(t, in.Newsletter)
}

func TestContactInput(t *testing.T) {
	var in ContactInput
	require.NoError(t, in.SetField("name", " Ada "))
	require.NoError(t, in.SetField("message", "Hello\n"))
	assert.Error(t, in.SetField("phone", "555"))

	assert.Equal(t, "Ada", in.Name)
	assert.Equal(t, "Hello", in.Message)

	trimmed := ContactInput{Name: " a ", Email: " b@c.d ", Subject: " s ", Message: " m "}.Trimmed()
	assert.Equal(t, ContactInput{Name: "a", Email: "b@c.d", Subject: "s", Message: "m"}, trimmed)

	msg := trimmed.ContactMessage()
	assert.Equal(t, "b@c.d", msg.Email)
	assert.Empty(t, msg.ID)
}
