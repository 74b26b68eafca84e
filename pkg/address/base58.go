package address

import (
	"encoding/binary"
	"errors"
	"math/bits"
	"strings"
)

// Alphabet is the set of symbols allowed in a base58 string.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const (
	fullBlockSize        = 8
	fullEncodedBlockSize = 11
)

// encodedBlockSizes maps a block of n bytes to the number of symbols it
// encodes to.
var encodedBlockSizes = [...]int{0, 2, 3, 5, 6, 7, 9, 10, 11}

var (
	// ErrInvalidBase58 is returned when decoding a string that is not valid
	// block base58.
	ErrInvalidBase58 = errors.New("invalid base58 string")
)

// IsBase58 returns whether every character of s belongs to Alphabet.
func IsBase58(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune(Alphabet, c) {
			return false
		}
	}
	return true
}

// EncodeBase58 encodes data with the block base58 scheme: data is split in 8
// bytes blocks, each one encoded independently to 11 symbols. The last
// partial block is encoded to the minimum number of symbols.
func EncodeBase58(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data)/fullBlockSize*fullEncodedBlockSize + fullEncodedBlockSize)

	for len(data) > 0 {
		n := fullBlockSize
		if len(data) < n {
			n = len(data)
		}
		sb.WriteString(encodeBlock(data[:n]))
		data = data[n:]
	}
	return sb.String()
}

// DecodeBase58 is the inverse of EncodeBase58.
func DecodeBase58(s string) ([]byte, error) {
	fullBlocks := len(s) / fullEncodedBlockSize
	lastBlockSize := decodedBlockSize(len(s) % fullEncodedBlockSize)
	if lastBlockSize < 0 {
		return nil, ErrInvalidBase58
	}

	out := make([]byte, 0, fullBlocks*fullBlockSize+lastBlockSize)
	for i := 0; i < fullBlocks; i++ {
		chunk := s[i*fullEncodedBlockSize : (i+1)*fullEncodedBlockSize]
		block, err := decodeBlock(chunk, fullBlockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	if lastBlockSize > 0 {
		block, err := decodeBlock(s[fullBlocks*fullEncodedBlockSize:], lastBlockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

func encodeBlock(block []byte) string {
	var buf [fullBlockSize]byte
	copy(buf[fullBlockSize-len(block):], block)
	num := binary.BigEndian.Uint64(buf[:])

	size := encodedBlockSizes[len(block)]
	out := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		out[i] = Alphabet[num%58]
		num /= 58
	}
	return string(out)
}

func decodeBlock(chunk string, size int) ([]byte, error) {
	var num, order uint64 = 0, 1
	for i := len(chunk) - 1; i >= 0; i-- {
		digit := strings.IndexByte(Alphabet, chunk[i])
		if digit < 0 {
			return nil, ErrInvalidBase58
		}

		hi, lo := bits.Mul64(order, uint64(digit))
		if hi != 0 {
			return nil, ErrInvalidBase58
		}
		sum, carry := bits.Add64(num, lo, 0)
		if carry != 0 {
			return nil, ErrInvalidBase58
		}
		num = sum

		// chunks are at most 11 symbols long, 58^10 fits in an uint64.
		order *= 58
	}
	if size < fullBlockSize && num>>(8*uint(size)) != 0 {
		return nil, ErrInvalidBase58
	}

	var buf [fullBlockSize]byte
	binary.BigEndian.PutUint64(buf[:], num)
	return buf[fullBlockSize-size:], nil
}

func decodedBlockSize(encodedSize int) int {
	for size, encoded := range encodedBlockSizes {
		if encoded == encodedSize {
			return size
		}
	}
	return -1
}
