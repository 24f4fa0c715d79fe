package monero

const (
	MainNetwork  = 18
	TestNetwork  = 53
	StageNetwork = 24

	SubAddressMainNetwork  = 42
	SubAddressTestNetwork  = 63
	SubAddressStageNetwork = 36

	IntegratedMainNetwork  = 19
	IntegratedTestNetwork  = 54
	IntegratedStageNetwork = 25
)

const (
	// JanusAnchorSize anchor_norm, anchor_sp and anchor_enc
	JanusAnchorSize = 16
	// EncryptedAmountSize a_enc
	EncryptedAmountSize = 8
	// PaymentIdSize pid and pid_enc
	PaymentIdSize = 8
	// CarrotViewTagSize vt
	CarrotViewTagSize = 3
	// InputContextSize one domain byte followed by a key image or a padded block index
	InputContextSize = 1 + 32
)
