package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mpingram/chip8vm/cpu"
)

var _ = Describe("Instructions", func() {
	Describe("flow control", func() {
		It("should jump to nnn with 1nnn", func() {
			m := newMachine(0x1ABC)
			m.steps(1)
			Expect(m.Snapshot().PC).To(Equal(uint16(0xABC)))
		})

		It("should return to the instruction after the call with 2nnn and 00EE", func() {
			m := newMachine(
				0x2206, // 200: CALL 206
				0x6101, // 202: LD V1, 01
				0x1204, // 204: JP 204
				0x00EE, // 206: RET
			)

			m.steps(1)
			state := m.Snapshot()
			Expect(state.PC).To(Equal(uint16(0x206)))
			Expect(state.Stack).To(Equal([]uint16{0x200}))

			m.steps(1)
			state = m.Snapshot()
			Expect(state.PC).To(Equal(uint16(0x202)))
			Expect(state.SP).To(BeZero())
		})

		It("should jump to nnn plus V0 with Bnnn", func() {
			m := newMachine(0x6004, 0xB300)
			m.steps(2)
			Expect(m.Snapshot().PC).To(Equal(uint16(0x304)))
		})

		It("should fail with a stack overflow on the 17th nested call", func() {
			m := newMachine(0x2200) // calls itself
			m.steps(16)

			err := m.Step()
			Expect(err).To(MatchError(cpu.ErrStackOverflow))

			state := m.Snapshot()
			Expect(state.PC).To(Equal(uint16(0x200)))
			Expect(state.SP).To(Equal(uint8(16)))
		})

		It("should fail with a stack underflow when returning with an empty stack", func() {
			m := newMachine(0x00EE)

			Expect(m.Step()).To(MatchError(cpu.ErrStackUnderflow))
			Expect(m.Snapshot().PC).To(Equal(uint16(0x200)))
		})

		It("should skip unknown opcodes", func() {
			m := newMachine(0x5001, 0x8008, 0xE0FF, 0xF0FF)
			m.steps(4)
			Expect(m.Snapshot().PC).To(Equal(uint16(0x208)))
		})
	})

	Describe("conditional skips", func() {
		DescribeTable("should move the program counter by 2 or 4",
			func(words []uint16, steps int, pc uint16) {
				m := newMachine(words...)
				m.steps(steps)
				Expect(m.Snapshot().PC).To(Equal(pc))
			},
			Entry("3xkk equal", []uint16{0x6005, 0x3005}, 2, uint16(0x206)),
			Entry("3xkk not equal", []uint16{0x6005, 0x3006}, 2, uint16(0x204)),
			Entry("4xkk not equal", []uint16{0x6005, 0x4006}, 2, uint16(0x206)),
			Entry("4xkk equal", []uint16{0x6005, 0x4005}, 2, uint16(0x204)),
			Entry("5xy0 equal", []uint16{0x6005, 0x6105, 0x5010}, 3, uint16(0x208)),
			Entry("5xy0 not equal", []uint16{0x6005, 0x6106, 0x5010}, 3, uint16(0x206)),
			Entry("9xy0 not equal", []uint16{0x6005, 0x6106, 0x9010}, 3, uint16(0x208)),
			Entry("9xy0 equal", []uint16{0x6005, 0x6105, 0x9010}, 3, uint16(0x206)),
		)
	})

	Describe("register instructions", func() {
		It("should wrap 7xkk around 256 after 6xkk for every register", func() {
			for x := uint16(0); x < 16; x++ {
				for _, kk := range []uint16{0x00, 0x01, 0x7F, 0xFE, 0xFF} {
					m := newMachine(0x6000|x<<8|kk, 0x7001|x<<8)
					m.steps(2)
					Expect(m.Snapshot().V[x]).To(Equal(byte(kk+1)), "V%X with kk=%02x", x, kk)
				}
			}
		})

		It("should read and write the registers named by x and y", func() {
			m := newMachine(0x6512, 0x6A07, 0x8A54, 0x6FFF, 0x6101, 0x8F14)

			m.steps(3)
			v := m.Snapshot().V
			Expect(v[5]).To(Equal(byte(0x12)))
			Expect(v[0xA]).To(Equal(byte(0x19)))
			Expect(v[0]).To(BeZero())

			m.steps(3)
			v = m.Snapshot().V
			Expect(v[0xF]).To(Equal(byte(1)))
			Expect(v[0]).To(BeZero())
		})

		It("should copy, or, and and xor registers", func() {
			m := newMachine(0x600C, 0x610A, 0x8210, 0x8211, 0x6303, 0x8312, 0x640C, 0x8413)
			m.steps(8)

			v := m.Snapshot().V
			Expect(v[2]).To(Equal(byte(0x0E)))
			Expect(v[3]).To(Equal(byte(0x02)))
			Expect(v[4]).To(Equal(byte(0x06)))
		})

		It("should set the carry flag with 8xy4", func() {
			m := newMachine(0x60FF, 0x6101, 0x8014)
			m.steps(3)

			v := m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0x00)))
			Expect(v[0xF]).To(Equal(byte(1)))
		})

		It("should clear the carry flag with 8xy4 when the sum fits", func() {
			m := newMachine(0x6F01, 0x6001, 0x6101, 0x8014)
			m.steps(4)

			v := m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0x02)))
			Expect(v[0xF]).To(Equal(byte(0)))
		})

		It("should clear VF on borrow with 8xy5", func() {
			m := newMachine(0x6001, 0x6102, 0x8015)
			m.steps(3)

			v := m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0xFF)))
			Expect(v[0xF]).To(Equal(byte(0)))
		})

		It("should set VF without borrow with 8xy5", func() {
			m := newMachine(0x6005, 0x6105, 0x8015)
			m.steps(3)

			v := m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0x00)))
			Expect(v[0xF]).To(Equal(byte(1)))
		})

		It("should shift right and keep the lowest bit with 8xy6", func() {
			m := newMachine(0x6005, 0x8006)
			m.steps(2)

			v := m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0x02)))
			Expect(v[0xF]).To(Equal(byte(1)))
		})

		It("should subtract Vx from Vy with 8xy7", func() {
			m := newMachine(0x6003, 0x6105, 0x8017)
			m.steps(3)
			v := m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0x02)))
			Expect(v[0xF]).To(Equal(byte(0)))

			m = newMachine(0x6005, 0x6103, 0x8017)
			m.steps(3)
			v = m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0xFE)))
			Expect(v[0xF]).To(Equal(byte(1)))
		})

		It("should shift left and keep the highest bit with 8xyE", func() {
			m := newMachine(0x6081, 0x800E)
			m.steps(2)

			v := m.Snapshot().V
			Expect(v[0]).To(Equal(byte(0x02)))
			Expect(v[0xF]).To(Equal(byte(1)))
		})

		It("should keep the flag in VF when VF is the destination", func() {
			m := newMachine(0x6FFF, 0x6101, 0x8F14)
			m.steps(3)
			Expect(m.Snapshot().V[0xF]).To(Equal(byte(1)))
		})

		It("should produce the same random numbers for the same seed with Cxkk", func() {
			program := assemble(0xC0FF, 0xC1FF, 0xC20F, 0xC300)
			a := cpu.NewChip8(nil, nil, nil, cpu.WithSeed(42), cpu.WithLogger(quietLogger()))
			b := cpu.NewChip8(nil, nil, nil, cpu.WithSeed(42), cpu.WithLogger(quietLogger()))
			Expect(a.Load(program)).To(Succeed())
			Expect(b.Load(program)).To(Succeed())

			for i := 0; i < 4; i++ {
				Expect(a.Step()).To(Succeed())
				Expect(b.Step()).To(Succeed())
			}

			v := a.Snapshot().V
			Expect(v).To(Equal(b.Snapshot().V))
			Expect(v[2]).To(BeNumerically("<=", 0x0F))
			Expect(v[3]).To(BeZero())
			Expect(a.Seed()).To(Equal(int64(42)))
		})
	})

	Describe("index register and memory", func() {
		It("should load I with Annn", func() {
			m := newMachine(0xA123)
			m.steps(1)
			Expect(m.Snapshot().I).To(Equal(uint16(0x123)))
		})

		It("should point I at the font glyph with Fx29", func() {
			m := newMachine(0x600A, 0xF029)
			m.steps(2)
			Expect(m.Snapshot().I).To(Equal(uint16(50)))
		})

		It("should flag an overflow of I with Fx1E", func() {
			m := newMachine(0xAFFF, 0x6001, 0xF01E)
			m.steps(3)

			state := m.Snapshot()
			Expect(state.I).To(Equal(uint16(0x000)))
			Expect(state.V[0xF]).To(Equal(byte(1)))
		})

		It("should clear VF with Fx1E when I stays in range", func() {
			m := newMachine(0x6F01, 0xA100, 0x6001, 0xF01E)
			m.steps(4)

			state := m.Snapshot()
			Expect(state.I).To(Equal(uint16(0x101)))
			Expect(state.V[0xF]).To(Equal(byte(0)))
		})

		It("should store the decimal digits of Vx with Fx33", func() {
			m := newMachine(0x60EA, 0xA300, 0xF033)
			m.steps(3)

			mem := m.Snapshot().Memory
			Expect(mem[0x300:0x303]).To(Equal([]byte{2, 3, 4}))
		})

		It("should store and load V0 through Vx with Fx55 and Fx65", func() {
			m := newMachine(
				0x6001, 0x6102, 0x6203, 0xA300, 0xF255,
				0x6000, 0x6100, 0x6200, 0xA300, 0xF265,
			)

			m.steps(5)
			state := m.Snapshot()
			Expect(state.Memory[0x300:0x304]).To(Equal([]byte{1, 2, 3, 0}))
			Expect(state.I).To(Equal(uint16(0x303)))

			m.steps(5)
			state = m.Snapshot()
			Expect(state.V[:4]).To(Equal([]byte{1, 2, 3, 0}))
			Expect(state.I).To(Equal(uint16(0x303)))
		})

		It("should wrap memory accesses at the end of memory", func() {
			m := newMachine(0x60AA, 0x61BB, 0xAFFF, 0xF155)
			m.steps(4)

			state := m.Snapshot()
			Expect(state.Memory[0xFFF]).To(Equal(byte(0xAA)))
			Expect(state.Memory[0x000]).To(Equal(byte(0xBB)))
		})
	})

	Describe("timers", func() {
		It("should read back the delay timer with Fx07", func() {
			m := newMachine(0x6007, 0xF015, 0xF107)
			m.steps(3)
			Expect(m.Snapshot().V[1]).To(Equal(byte(7)))
		})

		It("should count the delay timer down to zero in 45 cycles", func() {
			m := newMachine(0x6005, 0xF015, 0x1204)

			m.steps(36)
			Expect(m.Snapshot().DT).To(Equal(byte(1)))

			m.steps(9)
			Expect(m.Snapshot().DT).To(BeZero())
		})

		It("should beep once when the sound timer runs out", func() {
			m := newMachine(0x6001, 0xF018, 0x1204)

			m.steps(8)
			Expect(m.speaker.beeps).To(BeZero())

			m.steps(1)
			Expect(m.speaker.beeps).To(Equal(1))
			Expect(m.Snapshot().ST).To(BeZero())

			m.steps(30)
			Expect(m.speaker.beeps).To(Equal(1))
		})
	})

	Describe("keyboard", func() {
		It("should skip with Ex9E if the key in Vx is pressed", func() {
			m := newMachine(0x6005, 0xE09E)
			m.keypad.Press(cpu.Key5)
			m.steps(2)
			Expect(m.Snapshot().PC).To(Equal(uint16(0x206)))
		})

		It("should only use the low nibble of Vx as key", func() {
			m := newMachine(0x6015, 0xE09E)
			m.keypad.Press(cpu.Key5)
			m.steps(2)
			Expect(m.Snapshot().PC).To(Equal(uint16(0x206)))
		})

		It("should skip with ExA1 if the key in Vx is not pressed", func() {
			m := newMachine(0x6005, 0xE0A1)
			m.keypad.Press(cpu.Key4)
			m.steps(2)
			Expect(m.Snapshot().PC).To(Equal(uint16(0x206)))

			m = newMachine(0x6005, 0xE0A1)
			m.keypad.Press(cpu.Key5)
			m.steps(2)
			Expect(m.Snapshot().PC).To(Equal(uint16(0x204)))
		})

		It("should wait with Fx0A until a key is pressed", func() {
			m := newMachine(0xF30A, 0x1202)

			m.steps(3)
			state := m.Snapshot()
			Expect(state.WaitingForKey).To(BeTrue())
			Expect(state.PC).To(Equal(uint16(0x200)))

			m.keypad.Press(cpu.KeyB)
			m.steps(1)
			state = m.Snapshot()
			Expect(state.WaitingForKey).To(BeFalse())
			Expect(state.V[3]).To(Equal(byte(0xB)))
			Expect(state.PC).To(Equal(uint16(0x202)))
		})

		It("should not accept a key with Fx0A that was already held down", func() {
			m := newMachine(0xF30A, 0x1202)
			m.keypad.Press(cpu.Key7)

			m.steps(3)
			Expect(m.Snapshot().WaitingForKey).To(BeTrue())

			m.keypad.Release(cpu.Key7)
			m.steps(1)
			m.keypad.Press(cpu.Key7)
			m.steps(1)

			state := m.Snapshot()
			Expect(state.WaitingForKey).To(BeFalse())
			Expect(state.V[3]).To(Equal(byte(7)))
		})

		It("should keep the timers running while waiting for a key", func() {
			m := newMachine(0x6005, 0xF015, 0xF00A)
			m.steps(45)

			state := m.Snapshot()
			Expect(state.WaitingForKey).To(BeTrue())
			Expect(state.DT).To(BeZero())
		})
	})
})
