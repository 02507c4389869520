// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package assistant relays dashboard chat questions to a generative language
model.

Reply wraps the question in a fixed election preamble plus the last four
messages of the conversation and sends it through a Generator. GeminiClient
is the production Generator; tests substitute their own.

	gen, err := assistant.NewGeminiClient(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
	if errors.Is(err, assistant.ErrNotConfigured) {
		gen = nil // chat endpoint answers 503
	}
	a := assistant.New(gen)

The API key comes from configuration only.
*/
package assistant
