// Package config loads stereo matching settings from a JSON file, the
// environment and command-line flags, in increasing order of priority.
//
// A config file looks like:
//
//	{
//	  "matcher": {"num_paths": 8, "max_disparity": 128, "p1": 10, "p2_init": 150},
//	  "prefilter": {"blur_radius": 1.0},
//	  "render": {"colormap": "viridis", "format": "webp"},
//	  "log_level": "debug"
//	}
//
// Keys left out keep the values of Default.
package config
