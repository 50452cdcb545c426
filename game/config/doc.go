// Package config provides ruleset management for Dark Candy Land.
//
// The config package handles:
//   - Loading rulesets from JSON files
//   - Ruleset validation
//   - Default ruleset selection
//   - Ruleset discovery and listing
//
// Ruleset Format:
//
// Rulesets are stored as JSON files in the configs directory. Each one
// defines the board length, the starting teeth, the two player names and the
// deck composition:
//
//	{
//	  "name": "classic",
//	  "description": "...",
//	  "board_length": 40,
//	  "starting_teeth": 32,
//	  "players": ["Player 1", "Player 2"],
//	  "deck": {"singles_per_color": 2, "doubles_per_color": 2, "rainbow_rot": 2, "candy_cane_shortcut": 2}
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	quick, err := manager.LoadConfig("quick")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When classic.json is absent the manager falls back to the first valid file,
// and then to the built-in classic ruleset.
package config
