package openai

type Opt func(*OpenAi)

// WithBaseUrl sets the URL at which the OpenAI-compatible API is available.
//
// If not specified, will use OpenAI's API. When set, an API key becomes
// optional, since local OpenAI-compatible servers usually do not need one.
func WithBaseUrl(url string) Opt {
	return func(p *OpenAi) {
		p.baseUrl = url
	}
}

func WithApiKey(apiKey string) Opt {
	return func(p *OpenAi) {
		p.apiKey = apiKey
	}
}

func WithDefaultModel(model string) Opt {
	return func(p *OpenAi) {
		p.model = &model
	}
}

// WithTemperature sets the temperature used for requests that do not set
// their own.
func WithTemperature(temperature float64) Opt {
	return func(p *OpenAi) {
		p.temperature = &temperature
	}
}
