package recommend

type FailureKind string

const (
	TransportFailure FailureKind = "TRANSPORT_FAILURE"
	EmptyResponse    FailureKind = "EMPTY_RESPONSE"
)

// Outcome is the result of one submission: Success or Failure.
type Outcome interface {
	isOutcome()
}

type Success struct {
	Text string `json:"text"`
}

type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (Success) isOutcome() {}
func (Failure) isOutcome() {}

const (
	transportMessage = "System error: connection timed out. Check the network and retry."
	emptyMessage     = "Comms disrupted: the tactical host returned no usable briefing."
)

func transportFailure() Failure {
	return Failure{Kind: TransportFailure, Message: transportMessage}
}

func emptyFailure() Failure {
	return Failure{Kind: EmptyResponse, Message: emptyMessage}
}
