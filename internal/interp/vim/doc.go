// Package vim parses normal-mode command tokens into structured commands.
//
// Each token holds one complete command. The grammar is:
//
//	[count]["register][operator][count][motion]
//	[count]["register][operator][operator]   (line-wise: dd, yy, cc)
//	[count][motion]
//	[count]["register](p|P|x)
//	[count](i|a|I|A|o|O)                     (insert-mode entry)
//	m{a-z}                                   (set mark)
//	'{a-z}                                   (motion to mark line)
//
// Examples:
//   - "3dd": count=3, delete lines
//   - `"ayy`: yank line into register a
//   - "2G": go to line 2
//   - "d'a": delete from the cursor line through mark a's line
//
// Parsing a token either yields a complete Command or an error; there is no
// pending state across tokens, because the caller hands the parser whole
// commands rather than keystrokes.
package vim
