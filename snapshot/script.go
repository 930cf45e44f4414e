package snapshot

import (
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/snapshot/keys"
)

const (
	// MaxScriptSize is the largest raw script accepted in a snapshot record.
	MaxScriptSize = 10_000

	// script size prefixes 0-5 select a template, larger values carry size+6 raw bytes
	scriptP2PKH          = 0
	scriptP2SH           = 1
	scriptP2PKEven       = 2
	scriptP2PKOdd        = 3
	scriptP2PKUncompEven = 4
	scriptP2PKUncompOdd  = 5
	numSpecialScripts    = 6
)

// DecompressScript reads a compressed output script and expands it back to
// the original script bytes.
func DecompressScript(r Reader) ([]byte, error) {
	return decompressScript(r, MaxScriptSize)
}

func decompressScript(r Reader, maxScriptSize int) ([]byte, error) {
	size, err := ReadVarIntUint64(r)
	if err != nil {
		return nil, err
	}

	switch size {
	case scriptP2PKH:
		var hash [20]byte
		if err = readFull(r, hash[:], "p2pkh hash"); err != nil {
			return nil, err
		}

		script := make([]byte, 0, 25)
		script = append(script, bscript.OpDUP, bscript.OpHASH160, bscript.OpDATA20)
		script = append(script, hash[:]...)

		return append(script, bscript.OpEQUALVERIFY, bscript.OpCHECKSIG), nil

	case scriptP2SH:
		var hash [20]byte
		if err = readFull(r, hash[:], "p2sh hash"); err != nil {
			return nil, err
		}

		script := make([]byte, 0, 23)
		script = append(script, bscript.OpHASH160, bscript.OpDATA20)
		script = append(script, hash[:]...)

		return append(script, bscript.OpEQUAL), nil

	case scriptP2PKEven, scriptP2PKOdd:
		var x [32]byte
		if err = readFull(r, x[:], "p2pk public key"); err != nil {
			return nil, err
		}

		script := make([]byte, 0, 35)
		script = append(script, bscript.OpDATA33, byte(size))
		script = append(script, x[:]...)

		return append(script, bscript.OpCHECKSIG), nil

	case scriptP2PKUncompEven, scriptP2PKUncompOdd:
		compressed := make([]byte, keys.CompressedPubKeyLength)
		compressed[0] = byte(size - 2)

		if err = readFull(r, compressed[1:], "p2pk public key"); err != nil {
			return nil, err
		}

		pubKey, err := keys.DecompressPublicKey(compressed)
		if err != nil {
			return nil, err
		}

		script := make([]byte, 0, 67)
		script = append(script, bscript.OpDATA65)
		script = append(script, pubKey...)

		return append(script, bscript.OpCHECKSIG), nil
	}

	scriptLen := size - numSpecialScripts
	if scriptLen > uint64(maxScriptSize) { // nolint:gosec
		return nil, errors.NewScriptTooLongError("script of %d bytes exceeds the maximum of %d", scriptLen, maxScriptSize)
	}

	script := make([]byte, scriptLen)
	if err = readFull(r, script, "raw script"); err != nil {
		return nil, err
	}

	return script, nil
}

type ScriptType string

const (
	ScriptTypeP2PKH       ScriptType = "p2pkh"
	ScriptTypeP2SH        ScriptType = "p2sh"
	ScriptTypeP2PK        ScriptType = "p2pk"
	ScriptTypeP2MS        ScriptType = "p2ms"
	ScriptTypeNullData    ScriptType = "nulldata"
	ScriptTypeNonStandard ScriptType = "non-standard"
)

// ClassifyScript labels a decompressed output script with its template.
func ClassifyScript(script []byte) ScriptType {
	if len(script) == 0 {
		return ScriptTypeNonStandard
	}

	if len(script) == 1 {
		if script[0] == bscript.OpRETURN {
			return ScriptTypeNullData
		}

		return ScriptTypeNonStandard
	}

	s := bscript.NewFromBytes(script)

	switch {
	case s.IsP2PKH():
		return ScriptTypeP2PKH
	case s.IsP2SH():
		return ScriptTypeP2SH
	case s.IsP2PK():
		return ScriptTypeP2PK
	case s.IsMultiSigOut():
		return ScriptTypeP2MS
	case s.IsData():
		return ScriptTypeNullData
	default:
		return ScriptTypeNonStandard
	}
}
