package facebook

import (
	"fmt"

	"pagebridge/pkg/config"
)

// profileOptions maps each supported messenger-profile option name to its
// transform. Option selection is an explicit lookup; an option name outside
// this table is a configuration error.
var profileOptions = map[string]func(*config.SetupConfig) (any, error){
	"greeting":        greetingOption,
	"persistent_menu": persistentMenuOption,
	"get_started":     getStartedOption,
}

// BuildProfile converts static setup configuration into the thread-settings
// body for the named options. A nil setup fails with ErrorConfiguration.
func BuildProfile(setup *config.SetupConfig, options []string) (map[string]any, error) {
	if setup == nil {
		return nil, NewError(ErrorConfiguration, "facebook setup is not specified in services.yml")
	}

	profile := make(map[string]any, len(options))
	for _, option := range options {
		transform, ok := profileOptions[option]
		if !ok {
			return nil, NewError(ErrorConfiguration, fmt.Sprintf("unknown messenger profile option %q", option))
		}

		value, err := transform(setup)
		if err != nil {
			return nil, err
		}
		profile[option] = value
	}

	return profile, nil
}

func greetingOption(setup *config.SetupConfig) (any, error) {
	greetings := make([]GreetingLocale, 0, len(setup.Greeting))
	for _, greeting := range setup.Greeting {
		greetings = append(greetings, GreetingLocale{
			Locale: greeting.Locale,
			Text:   greeting.Text,
		})
	}

	return greetings, nil
}

func persistentMenuOption(setup *config.SetupConfig) (any, error) {
	menus := make([]MenuLocale, 0, len(setup.PersistentMenu))
	for _, menu := range setup.PersistentMenu {
		actions, err := translateButtons(menu.CallToActions)
		if err != nil {
			return nil, err
		}

		menus = append(menus, MenuLocale{
			Locale:                menu.Locale,
			ComposerInputDisabled: menu.ComposerInputDisabled,
			CallToActions:         actions,
		})
	}

	return menus, nil
}

func getStartedOption(setup *config.SetupConfig) (any, error) {
	return setup.GetStarted, nil
}
