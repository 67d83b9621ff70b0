package broker

// Routing keys are fixed wire contract, shared by publishers and consumers.
const (
	RoutingKeyStockCommand = "stock.command"
	RoutingKeyBotMessage   = "bot.message"
)

// Topology is the durable exchange/queue/binding set carrying the two logical
// streams: commands (chat to worker) and events (worker to chat). It is
// declared idempotently on every process start.
type Topology struct {
	CommandsExchange string
	EventsExchange   string
	CommandsQueue    string
	EventsQueue      string
}

func DefaultTopology() Topology {
	return Topology{
		CommandsExchange: "chat.commands",
		EventsExchange:   "chat.events",
		CommandsQueue:    "stock-commands",
		EventsQueue:      "bot-messages",
	}
}
