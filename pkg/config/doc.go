// Package config loads, normalizes, and validates surveycloud settings.
//
// Settings live in a TOML file, by default
// $XDG_CONFIG_HOME/surveycloud/config.toml. A missing file is not an error:
// [Load] then returns [Default]. Command-line flags are applied on top of the
// loaded values by the caller.
//
// The file has five sections:
//
//	[render]     canvas, colours, font sizes and seed for every cloud
//	[stopwords]  extra words or a word file merged into the built-in list
//	[storage]    where survey responses are kept (file path or DSN)
//	[cache]      local cache directory, optional Redis address, TTL
//	[server]     HTTP listen address and page title
package config
