package profiles

import "github.com/JonMunkholm/assetcheck/internal/core"

// StandardKey is the key of the built-in profile.
const StandardKey = "standard"

func init() {
	registerStandard()
}

func registerStandard() {
	core.Register(core.Profile{
		Key:          StandardKey,
		Label:        "Standard asset survey",
		Description:  "Facility asset survey rules with the standard controlled vocabularies.",
		Vocabularies: core.DefaultVocabularies(),
	})
}
