package service

// Streams names the broker pieces the pipeline services touch. Wired from the
// declared topology at startup.
type Streams struct {
	CommandsExchange string
	CommandsKey      string
	CommandsQueue    string
	EventsExchange   string
	EventsKey        string
	EventsQueue      string
}
