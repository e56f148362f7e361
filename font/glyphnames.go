package font

// glyphNames is the Latin subset of the Adobe Glyph List: every name that
// can appear in the /CharSet of a font subsetted from a Western typeface.
// Names outside this table resolve through decodeUniName or are dropped.
var glyphNames = map[string]string{
	// Basic Latin letters
	"A": "A", "B": "B", "C": "C", "D": "D", "E": "E", "F": "F", "G": "G",
	"H": "H", "I": "I", "J": "J", "K": "K", "L": "L", "M": "M", "N": "N",
	"O": "O", "P": "P", "Q": "Q", "R": "R", "S": "S", "T": "T", "U": "U",
	"V": "V", "W": "W", "X": "X", "Y": "Y", "Z": "Z",
	"a": "a", "b": "b", "c": "c", "d": "d", "e": "e", "f": "f", "g": "g",
	"h": "h", "i": "i", "j": "j", "k": "k", "l": "l", "m": "m", "n": "n",
	"o": "o", "p": "p", "q": "q", "r": "r", "s": "s", "t": "t", "u": "u",
	"v": "v", "w": "w", "x": "x", "y": "y", "z": "z",

	// Digits
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",

	// ASCII punctuation and symbols
	"space": " ", "exclam": "!", "quotedbl": "\"", "numbersign": "#",
	"dollar": "$", "percent": "%", "ampersand": "&", "quotesingle": "'",
	"parenleft": "(", "parenright": ")", "asterisk": "*", "plus": "+",
	"comma": ",", "hyphen": "-", "period": ".", "slash": "/",
	"colon": ":", "semicolon": ";", "less": "<", "equal": "=",
	"greater": ">", "question": "?", "at": "@",
	"bracketleft": "[", "backslash": "\\", "bracketright": "]",
	"asciicircum": "^", "underscore": "_", "grave": "`",
	"braceleft": "{", "bar": "|", "braceright": "}", "asciitilde": "~",

	// Latin-1 punctuation and symbols
	"exclamdown": "¡", "cent": "¢", "sterling": "£",
	"currency": "¤", "yen": "¥", "brokenbar": "¦",
	"section": "§", "dieresis": "¨", "copyright": "©",
	"ordfeminine": "ª", "guillemotleft": "«",
	"logicalnot": "¬", "registered": "®", "macron": "¯",
	"degree": "°", "plusminus": "±", "twosuperior": "²",
	"threesuperior": "³", "acute": "´", "mu": "µ",
	"paragraph": "¶", "periodcentered": "·", "cedilla": "¸",
	"onesuperior": "¹", "ordmasculine": "º",
	"guillemotright": "»", "onequarter": "¼", "onehalf": "½",
	"threequarters": "¾", "questiondown": "¿",
	"multiply": "×", "divide": "÷",

	// Latin-1 letters
	"Agrave": "À", "Aacute": "Á", "Acircumflex": "Â",
	"Atilde": "Ã", "Adieresis": "Ä", "Aring": "Å",
	"AE": "Æ", "Ccedilla": "Ç", "Egrave": "È",
	"Eacute": "É", "Ecircumflex": "Ê", "Edieresis": "Ë",
	"Igrave": "Ì", "Iacute": "Í", "Icircumflex": "Î",
	"Idieresis": "Ï", "Eth": "Ð", "Ntilde": "Ñ",
	"Ograve": "Ò", "Oacute": "Ó", "Ocircumflex": "Ô",
	"Otilde": "Õ", "Odieresis": "Ö", "Oslash": "Ø",
	"Ugrave": "Ù", "Uacute": "Ú", "Ucircumflex": "Û",
	"Udieresis": "Ü", "Yacute": "Ý", "Thorn": "Þ",
	"germandbls": "ß", "agrave": "à", "aacute": "á",
	"acircumflex": "â",
	"atilde": "ã", "adieresis": "ä", "aring": "å",
	"ae": "æ", "ccedilla": "ç", "egrave": "è",
	"eacute": "é", "ecircumflex": "ê", "edieresis": "ë",
	"igrave": "ì", "iacute": "í", "icircumflex": "î",
	"idieresis": "ï", "eth": "ð", "ntilde": "ñ",
	"ograve": "ò", "oacute": "ó", "ocircumflex": "ô",
	"otilde": "õ", "odieresis": "ö", "oslash": "ø",
	"ugrave": "ù", "uacute": "ú", "ucircumflex": "û",
	"udieresis": "ü", "yacute": "ý", "thorn": "þ",
	"ydieresis": "ÿ",

	// Latin Extended and typographic extras
	"Amacron": "Ā", "amacron": "ā", "Abreve": "Ă",
	"abreve": "ă", "Aogonek": "Ą", "aogonek": "ą",
	"Cacute": "Ć", "cacute": "ć", "Ccaron": "Č",
	"ccaron": "č", "Dcaron": "Ď", "dcaron": "ď",
	"Dcroat": "Đ", "dcroat": "đ", "Emacron": "Ē",
	"emacron": "ē", "Edotaccent": "Ė", "edotaccent": "ė",
	"Eogonek": "Ę", "eogonek": "ę", "Ecaron": "Ě",
	"ecaron": "ě", "Gbreve": "Ğ", "gbreve": "ğ",
	"Gcommaaccent": "Ģ", "gcommaaccent": "ģ",
	"Imacron": "Ī", "imacron": "ī", "Iogonek": "Į",
	"iogonek": "į", "Idotaccent": "İ", "dotlessi": "ı",
	"Kcommaaccent": "Ķ", "kcommaaccent": "ķ",
	"Lacute": "Ĺ", "lacute": "ĺ", "Lcommaaccent": "Ļ",
	"lcommaaccent": "ļ", "Lcaron": "Ľ", "lcaron": "ľ",
	"Lslash": "Ł", "lslash": "ł", "Nacute": "Ń",
	"nacute": "ń", "Ncommaaccent": "Ņ", "ncommaaccent": "ņ",
	"Ncaron": "Ň", "ncaron": "ň", "Omacron": "Ō",
	"omacron": "ō", "Ohungarumlaut": "Ő",
	"ohungarumlaut": "ő", "OE": "Œ", "oe": "œ",
	"Racute": "Ŕ", "racute": "ŕ", "Rcommaaccent": "Ŗ",
	"rcommaaccent": "ŗ", "Rcaron": "Ř", "rcaron": "ř",
	"Sacute": "Ś", "sacute": "ś", "Scedilla": "Ş",
	"scedilla": "ş", "Scaron": "Š", "scaron": "š",
	"Tcaron": "Ť", "tcaron": "ť", "Umacron": "Ū",
	"umacron": "ū", "Uring": "Ů", "uring": "ů",
	"Uhungarumlaut": "Ű", "uhungarumlaut": "ű",
	"Uogonek": "Ų", "uogonek": "ų", "Ydieresis": "Ÿ",
	"Zacute": "Ź", "zacute": "ź", "Zdotaccent": "Ż",
	"zdotaccent": "ż", "Zcaron": "Ž", "zcaron": "ž",
	"florin": "ƒ",

	// Accents
	"circumflex": "ˆ", "caron": "ˇ", "breve": "˘",
	"dotaccent": "˙", "ring": "˚", "ogonek": "˛",
	"tilde": "˜", "hungarumlaut": "˝",

	// General punctuation
	"endash": "–", "emdash": "—",
	"quoteleft": "‘", "quoteright": "’",
	"quotesinglbase": "‚", "quotedblleft": "“",
	"quotedblright": "”", "quotedblbase": "„",
	"dagger": "†", "daggerdbl": "‡", "bullet": "•",
	"ellipsis": "…", "perthousand": "‰",
	"guilsinglleft": "‹", "guilsinglright": "›",
	"fraction": "⁄", "Euro": "€", "trademark": "™",
	"partialdiff": "∂", "Delta": "∆", "summation": "∑",
	"minus": "−", "radical": "√", "infinity": "∞",
	"notequal": "≠", "lessequal": "≤", "greaterequal": "≥",
	"lozenge": "◊",

	// Ligature presentation forms
	"ff": "ﬀ", "fi": "ﬁ", "fl": "ﬂ",
	"ffi": "ﬃ", "ffl": "ﬄ",
}
