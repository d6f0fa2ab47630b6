package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

var validate = validator.New()

// TxRequest is the wire shape a transaction arrives in from JSON (a CLI
// fixture or an API payload) before being decoded into a concrete
// Transaction variant. Struct-tag validation catches malformed input
// before any felt parsing is attempted.
type TxRequest struct {
	Type                string   `json:"type" validate:"required,oneof=INVOKE_FUNCTION DECLARE DECLARE_V2 DEPLOY DEPLOY_ACCOUNT L1_HANDLER"`
	SenderAddress       string   `json:"sender_address" validate:"omitempty,hexadecimal"`
	ContractAddress     string   `json:"contract_address" validate:"omitempty,hexadecimal"`
	ClassHash           string   `json:"class_hash" validate:"omitempty,hexadecimal"`
	CompiledClassHash   string   `json:"compiled_class_hash" validate:"omitempty,hexadecimal"`
	ContractAddressSalt string   `json:"contract_address_salt" validate:"omitempty,hexadecimal"`
	EntryPointSelector  string   `json:"entry_point_selector" validate:"omitempty,hexadecimal"`
	FromAddress         string   `json:"from_address" validate:"omitempty,hexadecimal"`
	Calldata            []string `json:"calldata" validate:"dive,hexadecimal"`
	ConstructorCalldata []string `json:"constructor_calldata" validate:"dive,hexadecimal"`
	Signature           []string `json:"signature" validate:"dive,hexadecimal"`
	MaxFee              string   `json:"max_fee" validate:"omitempty,hexadecimal"`
	Nonce               string   `json:"nonce" validate:"omitempty,hexadecimal"`
	Version             string   `json:"version" validate:"omitempty,hexadecimal"`
	PaidFeeOnL1         string   `json:"paid_fee_on_l1" validate:"omitempty,hexadecimal"`
}

func (r *TxRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid transaction request: %w", err)
	}
	return nil
}

// hash derives the transaction hash from the raw request fields, so two
// identical requests always decode to the same hash and any field change
// produces a different one. json.Marshal over a struct emits fields in
// declaration order, which keeps the digest stable across runs.
func (r *TxRequest) hash() *felt.Felt {
	payload, err := json.Marshal(r)
	if err != nil {
		// TxRequest is all strings and string slices; Marshal cannot fail.
		panic(err)
	}
	return core.Keccak256Felt(payload)
}

func parseFeltOrZero(s string) (*felt.Felt, error) {
	if s == "" {
		return &felt.Zero, nil
	}
	return felt.FromString(s)
}

func parseFeltSlice(ss []string) ([]*felt.Felt, error) {
	out := make([]*felt.Felt, len(ss))
	for i, s := range ss {
		f, err := felt.FromString(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// Decode converts a validated TxRequest into the matching Transaction
// variant. Declare/DeclareV2 requests carry only class identity here, not
// the compiled class itself -- callers load and attach the CompiledClass
// (from wherever class bytecode is sourced) before calling Execute, the
// same separation CachedState.SetContractClass expects.
func (r *TxRequest) Decode() (Transaction, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	maxFee, err := parseFeltOrZero(r.MaxFee)
	if err != nil {
		return nil, fmt.Errorf("max_fee: %w", err)
	}
	nonce, err := parseFeltOrZero(r.Nonce)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	version, err := parseFeltOrZero(r.Version)
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	signature, err := parseFeltSlice(r.Signature)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}

	switch r.Type {
	case string(TxInvoke):
		sender, err := felt.FromString(r.SenderAddress)
		if err != nil {
			return nil, fmt.Errorf("sender_address: %w", err)
		}
		calldata, err := parseFeltSlice(r.Calldata)
		if err != nil {
			return nil, fmt.Errorf("calldata: %w", err)
		}
		return &InvokeFunction{
			BaseTx: BaseTx{
				Hash: r.hash(), Version: version, MaxFee: maxFee,
				NonceVal: nonce, SenderAddr: core.AddressFromFelt(sender), SignatureVals: signature,
			},
			Calldata: calldata,
		}, nil

	case string(TxDeclare):
		sender, err := felt.FromString(r.SenderAddress)
		if err != nil {
			return nil, fmt.Errorf("sender_address: %w", err)
		}
		classHash, err := felt.FromString(r.ClassHash)
		if err != nil {
			return nil, fmt.Errorf("class_hash: %w", err)
		}
		return &DeclareTransaction{
			BaseTx: BaseTx{
				Hash: r.hash(), Version: version, MaxFee: maxFee,
				NonceVal: nonce, SenderAddr: core.AddressFromFelt(sender), SignatureVals: signature,
			},
			ClassHash: core.ClassHashFromFelt(classHash),
		}, nil

	case string(TxDeclareV2):
		sender, err := felt.FromString(r.SenderAddress)
		if err != nil {
			return nil, fmt.Errorf("sender_address: %w", err)
		}
		classHash, err := felt.FromString(r.ClassHash)
		if err != nil {
			return nil, fmt.Errorf("class_hash: %w", err)
		}
		compiledHash, err := felt.FromString(r.CompiledClassHash)
		if err != nil {
			return nil, fmt.Errorf("compiled_class_hash: %w", err)
		}
		return &DeclareV2Transaction{
			BaseTx: BaseTx{
				Hash: r.hash(), Version: version, MaxFee: maxFee,
				NonceVal: nonce, SenderAddr: core.AddressFromFelt(sender), SignatureVals: signature,
			},
			ClassHash:         core.ClassHashFromFelt(classHash),
			CompiledClassHash: core.CompiledClassHashFromFelt(compiledHash),
		}, nil

	case string(TxDeployAccount):
		classHash, err := felt.FromString(r.ClassHash)
		if err != nil {
			return nil, fmt.Errorf("class_hash: %w", err)
		}
		salt, err := felt.FromString(r.ContractAddressSalt)
		if err != nil {
			return nil, fmt.Errorf("contract_address_salt: %w", err)
		}
		ctorCalldata, err := parseFeltSlice(r.ConstructorCalldata)
		if err != nil {
			return nil, fmt.Errorf("constructor_calldata: %w", err)
		}
		return &DeployAccountTransaction{
			BaseTx: BaseTx{
				Hash: r.hash(), Version: version, MaxFee: maxFee,
				NonceVal: nonce, SignatureVals: signature,
			},
			ClassHash:           core.ClassHashFromFelt(classHash),
			ContractAddressSalt: salt,
			ConstructorCalldata: ctorCalldata,
		}, nil

	case string(TxDeploy):
		classHash, err := felt.FromString(r.ClassHash)
		if err != nil {
			return nil, fmt.Errorf("class_hash: %w", err)
		}
		contractAddr, err := felt.FromString(r.ContractAddress)
		if err != nil {
			return nil, fmt.Errorf("contract_address: %w", err)
		}
		ctorCalldata, err := parseFeltSlice(r.ConstructorCalldata)
		if err != nil {
			return nil, fmt.Errorf("constructor_calldata: %w", err)
		}
		return &DeployTransaction{
			Hash: r.hash(), Version: version,
			ClassHash:           core.ClassHashFromFelt(classHash),
			ContractAddress:     core.AddressFromFelt(contractAddr),
			ConstructorCalldata: ctorCalldata,
		}, nil

	case string(TxL1Handler):
		contractAddr, err := felt.FromString(r.ContractAddress)
		if err != nil {
			return nil, fmt.Errorf("contract_address: %w", err)
		}
		entryPoint, err := felt.FromString(r.EntryPointSelector)
		if err != nil {
			return nil, fmt.Errorf("entry_point_selector: %w", err)
		}
		calldata, err := parseFeltSlice(r.Calldata)
		if err != nil {
			return nil, fmt.Errorf("calldata: %w", err)
		}
		paidFee, err := parseFeltOrZero(r.PaidFeeOnL1)
		if err != nil {
			return nil, fmt.Errorf("paid_fee_on_l1: %w", err)
		}
		return &L1HandlerTransaction{
			Hash: r.hash(), Version: version,
			ContractAddress: core.AddressFromFelt(contractAddr),
			EntryPoint:      entryPoint,
			Calldata:        calldata,
			NonceVal:        nonce,
			FromAddress:     common.HexToAddress(r.FromAddress),
			PaidFeeOnL1:     paidFee,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported transaction type %q", r.Type)
	}
}
