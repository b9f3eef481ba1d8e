package fs

import (
	"os"
	"strconv"
	"strings"

	"github.com/oneconcern/nr/pkg/errors"
)

var chmodBits = map[rune][3]os.FileMode{
	'r': {0o400, 0o040, 0o004},
	'w': {0o200, 0o020, 0o002},
	'x': {0o100, 0o010, 0o001},
}

// ChmodUpdate modifies mode according to a chmod string such as "u+x" or "go-w".
//
// The target defaults to "a". A target letter (u, g, o, a) must be followed by a
// direction (+ or -) before any permission letter.
func ChmodUpdate(mode os.FileMode, modstring string) (os.FileMode, error) {
	invalid := func() (os.FileMode, error) {
		return mode, errors.New("chmod " + strconv.Quote(modstring)).Wrap(ErrInvalidChmod)
	}

	target, direction := 'a', rune(0)
	for _, c := range modstring {
		switch {
		case c == '+' || c == '-':
			direction = c
		case strings.ContainsRune("ugoa", c):
			target = c
			direction = 0
		case strings.ContainsRune("rwx", c) && direction != 0:
			bits := chmodBits[c]
			var mask os.FileMode
			if target == 'a' {
				mask = bits[0] | bits[1] | bits[2]
			} else {
				mask = bits[strings.IndexRune("ugo", target)]
			}
			if direction == '-' {
				mode &^= mask
			} else {
				mode |= mask
			}
		default:
			return invalid()
		}
	}
	return mode, nil
}

// ChmodRepr returns the "rwxrwxrwx" representation of the permission bits of mode
func ChmodRepr(mode os.FileMode) string {
	const template = "rwxrwxrwx"
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		if mode&(1<<uint(8-i)) != 0 {
			b.WriteByte(template[i])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Chmod applies a chmod string to the file at path
func (p *Paths) Chmod(path, modstring string) error {
	info, err := p.fs.Stat(path)
	if err != nil {
		return err
	}
	mode, err := ChmodUpdate(info.Mode().Perm(), modstring)
	if err != nil {
		return err
	}
	return p.fs.Chmod(path, mode)
}
