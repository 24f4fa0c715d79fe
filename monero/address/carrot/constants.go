package carrot

// addressing protocol
const (
	DomainSeparatorAmountBlindingFactor    = "Carrot commitment mask"
	DomainSeparatorOnetimeExtensionG       = "Carrot key extension G"
	DomainSeparatorOnetimeExtensionT       = "Carrot key extension T"
	DomainSeparatorEncryptionMaskAnchor    = "Carrot encryption mask anchor"
	DomainSeparatorEncryptionMaskAmount    = "Carrot encryption mask a"
	DomainSeparatorEncryptionMaskPaymentId = "Carrot encryption mask pid"
	DomainSeparatorJanusAnchorSpecial      = "Carrot janus anchor special"
	DomainSeparatorEphemeralPrivateKey     = "Carrot sending key normal"
	DomainSeparatorViewTag                 = "Carrot view tag"
	DomainSeparatorSenderReceiverSecret    = "Carrot sender-receiver secret"

	DomainSeparatorInputContextCoinbase = 'C'
	DomainSeparatorInputContextRingCT   = 'R'
)

// account secrets
const (
	DomainSeparatorProveSpendKey         = "Carrot prove-spend key"
	DomainSeparatorViewBalanceSecret     = "Carrot view-balance secret"
	DomainSeparatorGenerateImageKey      = "Carrot generate-image key"
	DomainSeparatorIncomingViewKey       = "Carrot incoming view key"
	DomainSeparatorGenerateAddressSecret = "Carrot generate-address secret"
)

// addresses
const (
	DomainSeparatorAddressIndexGenerator = "Carrot address index generator"
	DomainSeparatorSubaddressScalar      = "Carrot subaddress scalar"
)

// DomainSeparatorDeterministicCoinbaseRandomness keys anchor_norm derivation for reproducible coinbase outputs
const DomainSeparatorDeterministicCoinbaseRandomness = "Carrot deterministic coinbase randomness"

// MinOutputSetSize smallest number of outputs in a non-coinbase transaction
const MinOutputSetSize = 2
