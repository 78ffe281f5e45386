package mesh

// familyByType maps ANSYS element type numbers to their cell family.
// Types not listed have no cell representation.
var familyByType = map[int32]Family{
	1:   FamilyLine,       // LINK1
	2:   FamilyShell,      // PLANE2
	3:   FamilyShell,      // BEAM3
	4:   FamilyShell,      // BEAM4
	5:   FamilySolid,      // SOLID5
	7:   FamilyPoint,      // COMBIN7
	8:   FamilyLine,       // LINK8
	10:  FamilyLine,       // LINK10
	11:  FamilyLine,       // LINK11
	12:  FamilyLine,       // CONTAC12
	13:  FamilyShell,      // PLANE13
	14:  FamilyLine,       // COMBIN14
	16:  FamilyLine,       // PIPE16
	17:  FamilyLine,       // PIPE17
	18:  FamilyLine,       // PIPE18
	20:  FamilyLine,       // PIPE20
	21:  FamilyPoint,      // MASS21
	22:  FamilyShell,      // SURF22
	23:  FamilyLine,       // BEAM23
	24:  FamilyLine,       // BEAM24
	25:  FamilyShell,      // PLANE25
	28:  FamilyShell,      // SHELL28
	29:  FamilyShell,      // FLUID29
	30:  FamilySolid,      // FLUID30
	31:  FamilyLine,       // LINK31
	32:  FamilyLine,       // LINK32
	33:  FamilyLine,       // LINK33
	34:  FamilyLine,       // LINK34
	35:  FamilyShell,      // PLANE35
	37:  FamilyLine,       // COMBIN37
	38:  FamilyLine,       // FLUID38
	39:  FamilyLine,       // COMBIN39
	40:  FamilyLine,       // COMBIN40
	41:  FamilyShell,      // SHELL41
	42:  FamilyShell,      // PLANE42
	43:  FamilyShell,      // SHELL43
	44:  FamilyLine,       // BEAM44
	45:  FamilySolid,      // SOLID45
	46:  FamilySolid,      // SOLID46
	51:  FamilyShell,      // SHELL51
	53:  FamilyShell,      // PLANE53
	54:  FamilyShell,      // BEAM54
	55:  FamilyShell,      // PLANE55
	57:  FamilyShell,      // SHELL57
	61:  FamilyLine,       // SHELL61
	62:  FamilySolid,      // SOLID62
	63:  FamilyShell,      // SHELL63
	64:  FamilySolid,      // SOLID64
	65:  FamilySolid,      // SOLID65
	66:  FamilyLine,       // FLUID66
	67:  FamilyShell,      // PLANE67
	68:  FamilyLine,       // LINK68
	69:  FamilySolid,      // SOLID69
	70:  FamilySolid,      // SOLID70
	71:  FamilyPoint,      // MASS71
	75:  FamilyShell,      // PLANE75
	77:  FamilyShell,      // PLANE77
	78:  FamilyShell,      // PLANE78
	79:  FamilyShell,      // FLUID79
	80:  FamilySolid,      // FLUID80
	81:  FamilyShell,      // FLUID81
	82:  FamilyShell,      // PLANE82
	83:  FamilyShell,      // PLANE83
	87:  FamilyTet10,      // SOLID87
	88:  FamilyShell,      // VISCO88
	89:  FamilySolid,      // VISCO89
	90:  FamilySolid,      // SOLID90
	91:  FamilyShell,      // SHELL91
	92:  FamilyTet10,      // SOLID92
	93:  FamilyShell,      // SHELL93
	95:  FamilySolid,      // SOLID95
	96:  FamilySolid,      // SOLID96
	97:  FamilySolid,      // SOLID97
	98:  FamilyTet10,      // SOLID98
	99:  FamilyShell,      // SHELL99
	100: FamilySolid,      // USER100
	101: FamilySolid,      // USER101
	102: FamilySolid,      // USER102
	103: FamilySolid,      // USER103
	104: FamilySolid,      // USER104
	105: FamilySolid,      // USER105
	106: FamilyShell,      // VISCO106
	107: FamilySolid,      // VISCO107
	108: FamilySolid,      // VISCO108
	115: FamilyShell,      // INTER115
	116: FamilyShell,      // FLUID116
	117: FamilySolid,      // EDGE117
	118: FamilyShell,      // HF118
	119: FamilyTet10,      // HF119
	120: FamilySolid,      // HF120
	121: FamilyShell,      // PLANE121
	122: FamilySolid,      // SOLID122
	123: FamilyTet10,      // SOLID123
	126: FamilyLine,       // TRANS126
	129: FamilyLine,       // FLUID129
	130: FamilyShell,      // FLUID130
	131: FamilyShell,      // SHELL131
	132: FamilyShell,      // SHELL132
	136: FamilyShell,      // FLUID136
	140: FamilyTet10,      // ROM140
	143: FamilyShell,      // SHELL143
	151: FamilyLine,       // SURF151
	152: FamilyShell,      // SURF152
	153: FamilyLine,       // SURF153
	154: FamilyShell,      // SURF154
	155: FamilyShell,      // SURF155
	156: FamilyLine,       // SURF156
	157: FamilyShell,      // SHELL157
	161: FamilyLine,       // BEAM161
	163: FamilyShell,      // SHELL163
	164: FamilySolid,      // SOLID164
	168: FamilyTet10,      // SOLID168
	171: FamilyLine,       // CONTA171
	172: FamilyLine,       // CONTA172
	173: FamilyShell,      // CONTA173
	174: FamilyShell,      // CONTA174
	175: FamilyPoint,      // CONTA175
	176: FamilyLine,       // CONTA176
	177: FamilyLine,       // CONTA177
	178: FamilyLine,       // CONTA178
	180: FamilyLine,       // LINK180
	181: FamilyShell,      // SHELL181
	182: FamilyShell,      // PLANE182
	183: FamilyShell,      // PLANE183
	185: FamilySolid,      // SOLID185
	186: FamilySolid,      // SOLID186
	187: FamilyTet10,      // SOLID187
	188: FamilyLinearLine, // BEAM188
	189: FamilyLine,       // BEAM189
	190: FamilySolid,      // SOLSH190
	192: FamilySolid,      // INTER192
	208: FamilyLine,       // SHELL208
	209: FamilyLine,       // SHELL209
	217: FamilyTet10,      // CPT217
	218: FamilyShell,      // FLUID218
	219: FamilyShell,      // FLUID219
	220: FamilySolid,      // FLUID220
	221: FamilyTet10,      // FLUID221
	222: FamilyShell,      // PLANE222
	223: FamilyShell,      // PLANE223
	226: FamilySolid,      // SOLID226
	227: FamilyTet10,      // SOLID227
	230: FamilyShell,      // PLANE230
	231: FamilySolid,      // SOLID231
	232: FamilyTet10,      // SOLID232
	233: FamilyShell,      // PLANE233
	236: FamilySolid,      // SOLID236
	237: FamilyTet10,      // SOLID237
	238: FamilyShell,      // PLANE238
	239: FamilySolid,      // SOLID239
	240: FamilyTet10,      // SOLID240
	250: FamilyLine,       // COMBI250
	251: FamilyLine,       // SURF251
	252: FamilyShell,      // SURF252
	261: FamilySolid,      // UNUSED261
	278: FamilySolid,      // SOLID278
	279: FamilySolid,      // SOLID279
	280: FamilyLine,       // CABLE280
	281: FamilyShell,      // SHELL281
	282: FamilyShell,      // SHELL282
	283: FamilyShell,      // SHELL283
	285: FamilyTet10,      // SOLID285
	288: FamilyLine,       // PIPE288
	289: FamilyLine,       // PIPE289
	290: FamilyLine,       // ELBOW290
	291: FamilyTet10,      // SOLID291
	292: FamilyShell,      // PLANE292
	293: FamilyShell,      // PLANE293
}
