// Package scratch manages the scratch file a garden entry is composed in.
//
// A Session seeds a uniquely named temp file with YAML front matter, hands
// it to the user's editor as a blocking foreground subprocess, and reads the
// result back as a Draft once the editor exits:
//
//	session := scratch.NewSession(settings.Editor, nil)
//	file, err := session.Begin("Morning Notes")
//	draft, err := session.Edit(file)
//	session.Finish(file)
//
// A draft whose body is empty or whitespace-only after the front matter is
// removed is abandoned and must not be committed.
package scratch
