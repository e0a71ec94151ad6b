package smpp

// SMPP Protocol Version
const SMPPVersion = 0x34

// Maximum size of a framed PDU, header included.
const MaxPDULength = 65536

// Command IDs
const (
	CommandBindReceiver    uint32 = 0x00000001
	CommandBindTransmitter uint32 = 0x00000002
	CommandQuerySM         uint32 = 0x00000003
	CommandSubmitSM        uint32 = 0x00000004
	CommandDeliverSM       uint32 = 0x00000005
	CommandUnbind          uint32 = 0x00000006
	CommandBindTransceiver uint32 = 0x00000009
	CommandEnquireLink     uint32 = 0x00000015

	// Response command IDs (original command ID | 0x80000000)
	CommandGenericNack         uint32 = 0x80000000
	CommandBindReceiverResp    uint32 = 0x80000001
	CommandBindTransmitterResp uint32 = 0x80000002
	CommandQuerySMResp         uint32 = 0x80000003
	CommandSubmitSMResp        uint32 = 0x80000004
	CommandDeliverSMResp       uint32 = 0x80000005
	CommandUnbindResp          uint32 = 0x80000006
	CommandBindTransceiverResp uint32 = 0x80000009
	CommandEnquireLinkResp     uint32 = 0x80000015
)

// CommandRespBit marks a command ID as a response.
const CommandRespBit uint32 = 0x80000000

// Command Status
const (
	StatusOK           uint32 = 0x00000000
	StatusInvMsgLen    uint32 = 0x00000001
	StatusInvCmdLen    uint32 = 0x00000002
	StatusInvCmdID     uint32 = 0x00000003
	StatusInvBnd       uint32 = 0x00000004
	StatusAlreadyBnd   uint32 = 0x00000005
	StatusSysErr       uint32 = 0x00000008
	StatusInvSrcAdr    uint32 = 0x0000000A
	StatusInvDstAdr    uint32 = 0x0000000B
	StatusInvMsgID     uint32 = 0x0000000C
	StatusBindFail     uint32 = 0x0000000D
	StatusInvPaswd     uint32 = 0x0000000E
	StatusInvSysID     uint32 = 0x0000000F
	StatusMsgQFul      uint32 = 0x00000014
	StatusInvSerTyp    uint32 = 0x00000015
	StatusSubmitFail   uint32 = 0x00000045
	StatusInvSrcTON    uint32 = 0x00000048
	StatusInvSrcNPI    uint32 = 0x00000049
	StatusInvDstTON    uint32 = 0x00000050
	StatusInvDstNPI    uint32 = 0x00000051
	StatusInvSysTyp    uint32 = 0x00000053
	StatusThrottled    uint32 = 0x00000058
	StatusInvSched     uint32 = 0x00000061
	StatusInvExpiry    uint32 = 0x00000062
	StatusQueryFail    uint32 = 0x00000067
	StatusInvParLen    uint32 = 0x000000C2
	StatusDeliveryFail uint32 = 0x000000FE
	StatusUnknownErr   uint32 = 0x000000FF
)

// ESM Class values
const (
	EsmClassDefault         = 0x00
	EsmClassDeliveryReceipt = 0x04
	EsmClassUDHI            = 0x40
	EsmClassReplyPath       = 0x80
)

// Data Coding Scheme
const (
	DataCodingDefault  = 0x00
	DataCodingIA5      = 0x01
	DataCodingBinary   = 0x02
	DataCodingISO88591 = 0x03
	DataCodingUCS2     = 0x08
)

// TON (Type of Number)
const (
	TONUnknown          = 0x00
	TONInternational    = 0x01
	TONNational         = 0x02
	TONNetworkSpecific  = 0x03
	TONSubscriberNumber = 0x04
	TONAlphanumeric     = 0x05
	TONAbbreviated      = 0x06
)

// NPI (Numbering Plan Indicator)
const (
	NPIUnknown    = 0x00
	NPIISDN       = 0x01
	NPIData       = 0x03
	NPITelex      = 0x04
	NPILandMobile = 0x06
	NPINational   = 0x08
	NPIPrivate    = 0x09
	NPIERMES      = 0x0A
	NPIIP         = 0x0E
	NPIWAP        = 0x12
)

// Registered Delivery
const (
	RegisteredDeliveryNone           = 0x00
	RegisteredDeliverySuccessFailure = 0x01
	RegisteredDeliveryFailure        = 0x02
)

// Priority Flag
const (
	PriorityLevel0 = 0x00 // Normal
	PriorityLevel1 = 0x01 // High
	PriorityLevel2 = 0x02 // Very High
	PriorityLevel3 = 0x03 // Highest
)

// Message State (for query_sm_resp and delivery receipts)
const (
	MessageStateEnroute       = 0x01
	MessageStateDelivered     = 0x02
	MessageStateExpired       = 0x03
	MessageStateDeleted       = 0x04
	MessageStateUndeliverable = 0x05
	MessageStateAccepted      = 0x06
	MessageStateUnknown       = 0x07
	MessageStateRejected      = 0x08
)

// Optional Parameter Tags
const (
	TagReceiptedMessageID = 0x001E
	TagUserMessageRef     = 0x0204
	TagSarMsgRefNum       = 0x020C
	TagSarTotalSegments   = 0x020E
	TagSarSegmentSeqnum   = 0x020F
	TagSCInterfaceVersion = 0x0210
	TagNetworkErrorCode   = 0x0423
	TagMessagePayload     = 0x0424
	TagMoreMessagesToSend = 0x0426
	TagMessageStateOption = 0x0427
)

// Maximum field lengths
const (
	MaxSystemIDLength     = 16
	MaxPasswordLength     = 9
	MaxSystemTypeLength   = 13
	MaxServiceTypeLength  = 6
	MaxAddressLength      = 21
	MaxAddressRangeLength = 41
	MaxTimeLength         = 17
	MaxShortMessageLength = 254
	MaxMessageIDLength    = 65
	MaxAlphanumericLength = 11
	MaxPhoneNumberLength  = 20
)

// Segment payload budgets. The single-part budgets are the per-message
// limits of each encoding, not the 254-octet short_message field capacity.
const (
	MaxSingleGSMLength  = 160
	MaxSingleUCS2Length = 140
	MaxSarSegmentLength = 153
	MaxSarUCS2Length    = 134
	MaxUdhSegmentLength = 153
	MaxUdhUCS2Length    = 132
	MaxSegments         = 255
)
