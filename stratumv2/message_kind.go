package stratumv2

// MessageKind enumerates the message identifiers the Stratum V2
// framing header's msg_type byte can carry. This is a closed set --
// any other byte value fails decoding.
type MessageKind uint8

const (
	SetupMiningConnection        MessageKind = 0x00
	SetupMiningConnectionSuccess MessageKind = 0x01
	SetupMiningConnectionError   MessageKind = 0x02
	OpenChannel                  MessageKind = 0x03
	OpenChannelSuccess           MessageKind = 0x04
	OpenChannelError             MessageKind = 0x05
	UpdateChannel                MessageKind = 0x06
	UpdateChannelError           MessageKind = 0x07
	NewMiningJob                 MessageKind = 0x08
	SetTarget                    MessageKind = 0x09
	SetNewPrevHash               MessageKind = 0x0a
	SubmitShares                 MessageKind = 0x0b
	SubmitSharesSuccess          MessageKind = 0x0c
	SubmitSharesError            MessageKind = 0x0d
)

var messageKindNames = map[MessageKind]string{
	SetupMiningConnection:        "SetupMiningConnection",
	SetupMiningConnectionSuccess: "SetupMiningConnectionSuccess",
	SetupMiningConnectionError:   "SetupMiningConnectionError",
	OpenChannel:                  "OpenChannel",
	OpenChannelSuccess:           "OpenChannelSuccess",
	OpenChannelError:             "OpenChannelError",
	UpdateChannel:                "UpdateChannel",
	UpdateChannelError:           "UpdateChannelError",
	NewMiningJob:                 "NewMiningJob",
	SetTarget:                    "SetTarget",
	SetNewPrevHash:               "SetNewPrevHash",
	SubmitShares:                 "SubmitShares",
	SubmitSharesSuccess:          "SubmitSharesSuccess",
	SubmitSharesError:            "SubmitSharesError",
}

// Valid reports whether k is one of the fourteen recognized message
// identifiers.
func (k MessageKind) Valid() bool {
	_, ok := messageKindNames[k]
	return ok
}

// String renders the message kind's name, or "Unknown" for an
// unrecognized value.
func (k MessageKind) String() string {
	if name, ok := messageKindNames[k]; ok {
		return name
	}
	return "Unknown"
}
